package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mockup/pkg/cache"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/observability"
	"github.com/matzehuels/mockup/pkg/scene"
)

// Format is a diagram output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// ParseFormat validates a diagram format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG:
		return f, nil
	default:
		return "", mkerrors.New(mkerrors.ErrCodeInvalidFormat, "unknown diagram format %q (want dot or svg)", s)
	}
}

// Exporter renders diagrams through an artifact cache.
type Exporter struct {
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithKeyer sets the cache key scheme. Default: [cache.NewDefaultKeyer].
func WithKeyer(k cache.Keyer) Option { return func(e *Exporter) { e.keyer = k } }

// WithTTL sets how long artifacts stay cached. Zero means forever.
func WithTTL(d time.Duration) Option { return func(e *Exporter) { e.ttl = d } }

// WithLogger sets the logger for cache failures.
func WithLogger(l *log.Logger) Option { return func(e *Exporter) { e.logger = l } }

// New creates an Exporter. A nil cache disables caching.
func New(c cache.Cache, opts ...Option) *Exporter {
	if c == nil {
		c = cache.NewNullCache()
	}
	e := &Exporter{cache: c, keyer: cache.NewDefaultKeyer(), logger: log.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Screen renders the hierarchy diagram of s.
func (e *Exporter) Screen(ctx context.Context, s *scene.Screen, f Format, opts Options) ([]byte, error) {
	// Screen name and id are drawn but not part of the structural hash.
	snap := cache.Hash([]byte(history.StructuralHash(s) + "\x00" + s.ID + "\x00" + s.Name))
	return e.render(ctx, snap, f, opts, func() string { return ScreenDOT(s, opts) })
}

// Flow renders the screen flow diagram of doc.
func (e *Exporter) Flow(ctx context.Context, doc *scene.Document, f Format, opts Options) ([]byte, error) {
	type node struct {
		ID, Name string
		Hidden   bool
		Viewport scene.Viewport
	}
	nodes := make([]node, len(doc.Screens))
	for i, s := range doc.Screens {
		nodes[i] = node{s.ID, s.Name, s.Hidden, s.Viewport}
	}
	snap, err := cache.HashJSON(struct {
		Nodes  []node
		Active string
		Links  map[string][]string
	}{nodes, doc.ActiveID, doc.Links()})
	if err != nil {
		return nil, err
	}
	return e.render(ctx, "flow:"+snap, f, opts, func() string { return FlowDOT(doc, opts) })
}

func (e *Exporter) render(ctx context.Context, snap string, f Format, opts Options, dot func() string) ([]byte, error) {
	key := e.keyer.ArtifactKey(snap, cache.ArtifactKeyOpts{
		Format:      string(f),
		Direction:   opts.rankdir(),
		ShowHidden:  opts.ShowHidden,
		IncludeLink: opts.IncludeLinks,
	})

	hooks := observability.Cache()
	if data, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("artifact cache read failed", "key", key, "err", err)
	} else if ok {
		hooks.OnCacheHit(ctx, string(f))
		return data, nil
	}
	hooks.OnCacheMiss(ctx, string(f))

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatDOT:
		data = []byte(dot())
	case FormatSVG:
		data, err = RenderSVG(ctx, dot())
	default:
		return nil, mkerrors.New(mkerrors.ErrCodeInvalidFormat, "unknown diagram format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}

	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("artifact cache write failed", "key", key, "err", err)
	} else {
		hooks.OnCacheSet(ctx, string(f), len(data))
	}
	return data, nil
}
