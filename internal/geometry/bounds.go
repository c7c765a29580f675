package geometry

import "math"

// BBox is an axis-aligned bounding box. The zero value is empty and extends
// to cover whatever is added to it.
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
	set        bool
}

// Extend grows the box to include the coordinate.
func (b *BBox) Extend(x, y float64) {
	if !b.set {
		b.MinX, b.MaxX = x, x
		b.MinY, b.MaxY = y, y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// Contains reports whether the coordinate lies inside or on the box.
func (b BBox) Contains(x, y float64) bool {
	return b.set &&
		x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY
}

// Intersects reports whether two boxes overlap (edge contact counts).
func (b BBox) Intersects(o BBox) bool {
	return b.set && o.set &&
		b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}
