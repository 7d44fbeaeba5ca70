package frame

// Region is an axis-aligned rectangle in frame coordinates, typically
// produced by a detector. A region may extend past a buffer's bottom/right
// edge (or start above/left of it); every consumer clips against the buffer
// bounds before indexing.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect builds a region from its top-left corner and size.
func Rect(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// Full returns the region covering an entire width×height buffer.
func Full(width, height int) Region {
	return Region{Width: width, Height: height}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clip intersects the region with the bounds [0,width)×[0,height).
// The result is empty when the region lies entirely outside the bounds.
func (r Region) Clip(width, height int) Region {
	x1 := r.X
	y1 := r.Y
	x2 := r.X + r.Width
	y2 := r.Y + r.Height
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > width {
		x2 = width
	}
	if y2 > height {
		y2 = height
	}
	if x2 <= x1 || y2 <= y1 {
		return Region{}
	}
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersect returns the overlap of two regions (empty when disjoint).
func (r Region) Intersect(o Region) Region {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Region{}
	}
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
