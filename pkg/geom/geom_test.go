package geom

import "testing"

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name  string
		rects []Rect
		want  Rect
		ok    bool
	}{
		{name: "empty", rects: nil, ok: false},
		{
			name:  "single",
			rects: []Rect{{X: 5, Y: 6, Width: 10, Height: 20}},
			want:  Rect{X: 5, Y: 6, Width: 10, Height: 20},
			ok:    true,
		},
		{
			name: "disjoint",
			rects: []Rect{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 50, Y: 40, Width: 20, Height: 5},
			},
			want: Rect{X: 0, Y: 0, Width: 70, Height: 45},
			ok:   true,
		},
		{
			name: "negative origin",
			rects: []Rect{
				{X: -10, Y: 5, Width: 5, Height: 5},
				{X: 0, Y: -20, Width: 10, Height: 10},
			},
			want: Rect{X: -10, Y: -20, Width: 20, Height: 30},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BoundingBox(tt.rects)
			if ok != tt.ok {
				t.Fatalf("BoundingBox() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("BoundingBox() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, size float64
		enabled bool
		want    float64
	}{
		{v: 14, size: 10, enabled: true, want: 10},
		{v: 15, size: 10, enabled: true, want: 20},
		{v: 35, size: 10, enabled: true, want: 40},
		{v: -15, size: 10, enabled: true, want: -10},
		{v: 14, size: 10, enabled: false, want: 14},
		{v: 14, size: 0, enabled: true, want: 14},
		{v: 14, size: -5, enabled: true, want: 14},
		{v: 7, size: 8, enabled: true, want: 8},
	}

	for _, tt := range tests {
		if got := Snap(tt.v, tt.size, tt.enabled); got != tt.want {
			t.Errorf("Snap(%v, %v, %v) = %v, want %v", tt.v, tt.size, tt.enabled, got, tt.want)
		}
	}
}

func TestClampSize(t *testing.T) {
	if got := ClampSize(3); got != MinSize {
		t.Errorf("ClampSize(3) = %v, want %v", got, MinSize)
	}
	if got := ClampSize(-40); got != MinSize {
		t.Errorf("ClampSize(-40) = %v, want %v", got, MinSize)
	}
	if got := ClampSize(42); got != 42 {
		t.Errorf("ClampSize(42) = %v, want 42", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.Contains(10, 30) {
		t.Error("edge point should be contained")
	}
	if r.Contains(31, 15) {
		t.Error("point right of rect should not be contained")
	}
	if got := r.Translate(5, -5); got != (Rect{X: 15, Y: 5, Width: 20, Height: 20}) {
		t.Errorf("Translate() = %+v", got)
	}
}
