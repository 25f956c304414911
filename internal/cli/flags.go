package cli

import (
	"math"
	"strconv"
	"strings"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/scene"
)

// parsePair parses "x,y" (or "WxH" when sep is "x").
func parsePair(flag, s, sep string) (float64, float64, error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), sep)
	if !ok {
		return 0, 0, mkerrors.New(mkerrors.ErrCodeInvalidInput, "--%s: want two numbers separated by %q, got %q", flag, sep, s)
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err1 != nil || err2 != nil || !finite(x) || !finite(y) {
		return 0, 0, mkerrors.New(mkerrors.ErrCodeInvalidInput, "--%s: invalid number in %q", flag, s)
	}
	return x, y, nil
}

// parsePayload parses key=value pairs. Values that parse as JSON-ish
// numbers or booleans are typed; "key=" removes the key.
func parsePayload(pairs []string) (scene.Payload, error) {
	out := scene.Payload{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, mkerrors.New(mkerrors.ErrCodeInvalidInput, "want key=value, got %q", p)
		}
		switch {
		case v == "":
			out[k] = nil
		case v == "true" || v == "false":
			out[k] = v == "true"
		default:
			if f, err := strconv.ParseFloat(v, 64); err == nil && finite(f) {
				out[k] = f
			} else {
				out[k] = v
			}
		}
	}
	return out, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
