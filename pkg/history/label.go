package history

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/mockup/pkg/scene"
)

// Labels produced by [Label]. Element-specific labels are formatted with the
// element's display name.
const (
	LabelAdded      = "Element Added"
	LabelRemoved    = "Element Removed"
	LabelBackground = "Background Changed"
	LabelDimensions = "Dimensions Changed"
	LabelUpdated    = "Screen Updated"
)

// Label describes the change from prev to next. The first matching rule
// wins:
//
//  1. more elements: "Element Added"
//  2. fewer elements: "Element Removed"
//  3. background differs: "Background Changed"
//  4. viewport differs: "Dimensions Changed"
//  5. first element (in next's order) whose geometry differs: "Moved {name}"
//  6. first element whose style differs: "Styled {name}"
//  7. first element whose props differ: "Updated {name}"
//  8. anything else: "Screen Updated"
//
// Style is checked before props, so an edit touching both reads as a style
// change.
func Label(prev, next *scene.Screen) string {
	switch {
	case len(next.Elements) > len(prev.Elements):
		return LabelAdded
	case len(next.Elements) < len(prev.Elements):
		return LabelRemoved
	case next.Background != prev.Background:
		return LabelBackground
	case next.Viewport != prev.Viewport:
		return LabelDimensions
	}

	rules := []struct {
		verb    string
		differs func(a, b *scene.Element) bool
	}{
		{"Moved", func(a, b *scene.Element) bool { return a.Rect() != b.Rect() }},
		{"Styled", func(a, b *scene.Element) bool { return !payloadEqual(a.Style, b.Style) }},
		{"Updated", func(a, b *scene.Element) bool { return !payloadEqual(a.Props, b.Props) }},
	}
	for _, r := range rules {
		for i := range next.Elements {
			n := &next.Elements[i]
			p, ok := prev.Element(n.ID)
			if ok && r.differs(p, n) {
				return r.verb + " " + n.DisplayName()
			}
		}
	}
	return LabelUpdated
}

// payloadEqual compares payloads by their JSON encoding so that a value
// that went through a save/load cycle (ints becoming float64) still compares
// equal. Nil and empty payloads are equal.
func payloadEqual(a, b scene.Payload) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
