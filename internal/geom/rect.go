// Package geom holds the axis-aligned rectangle math used to map
// annotation regions onto word boxes.
package geom

import "math"

// Rect is an axis-aligned box in page space with a top-left origin:
// X grows to the right, Y grows downward.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect builds a normalized Rect from two arbitrary corners.
func NewRect(ax, ay, bx, by float64) Rect {
	return Rect{
		X0: math.Min(ax, bx),
		Y0: math.Min(ay, by),
		X1: math.Max(ax, bx),
		Y1: math.Max(ay, by),
	}
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool {
	return !(r.X1 > r.X0 && r.Y1 > r.Y0)
}

// Area is zero for empty rectangles.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Intersect returns the overlapping region; the result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: math.Max(r.X0, o.X0),
		Y0: math.Max(r.Y0, o.Y0),
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
	}
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// OverlapRatio is the share of a's area covered by b: |a ∩ b| / |a|.
// It is not symmetric; a degenerate a yields 0.
func OverlapRatio(a, b Rect) float64 {
	area := a.Area()
	if area <= 0 {
		return 0
	}
	return a.Intersect(b).Area() / area
}
