package model

import (
	"fmt"
	"math"
)

// Rect represents a page-coordinate bounding box. The Y axis grows downward
// (Top < Bottom for well-formed content), matching the coordinate system used
// by layout extractors and OCR engines. No validation is performed on
// construction; malformed boxes are carried through unchanged.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// NewRect creates a bounding box from its four edges.
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// IsValid returns true if the box has positive extent on both axes.
func (r Rect) IsValid() bool {
	return r.Right > r.Left && r.Bottom > r.Top
}

// Contains checks if a point is inside the box (edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Intersects checks if two boxes overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right < other.Left ||
		r.Left > other.Right ||
		r.Bottom < other.Top ||
		r.Top > other.Bottom)
}

// Union returns the smallest box covering both boxes.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// String returns a compact representation suitable for listings.
func (r Rect) String() string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f,%.1f)", r.Left, r.Top, r.Right, r.Bottom)
}
