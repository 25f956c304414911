// Package geom provides the small amount of planar geometry the editor needs:
// axis-aligned rectangles, bounding boxes, grid snapping, and the minimum-size
// clamp applied during resize.
//
// All coordinates are in document units, independent of the canvas zoom. The
// interaction layer divides pointer deltas by the current scale before they
// reach this package.
package geom

import "math"

// MinSize is the smallest width or height a resize may produce.
const MinSize = 10.0

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns X+Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y+Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// BoundingBox returns the smallest rectangle enclosing every rect.
// The second result is false for an empty input; callers must guard it
// because an empty set has no meaningful bounds.
func BoundingBox(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Snap rounds v to the nearest multiple of size when enabled.
// A non-positive size behaves as disabled. Halves round toward positive
// infinity so that snapping is translation invariant across the origin.
func Snap(v, size float64, enabled bool) float64 {
	if !enabled || size <= 0 {
		return v
	}
	return math.Floor(v/size+0.5) * size
}

// ClampSize returns v, or MinSize if v is smaller.
func ClampSize(v float64) float64 {
	if v < MinSize {
		return MinSize
	}
	return v
}
