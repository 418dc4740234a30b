package grid

import "fmt"

type Point struct {
	X, Y int
}

func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Rect is a half-open rectangle [X,X+W) x [Y,Y+H).
type Rect struct {
	X, Y, W, H int
}

func RectAt(p Point, w, h int) Rect { return Rect{X: p.X, Y: p.Y, W: w, H: h} }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

// Intersect returns the overlap of r and o; the result is Empty when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Grow expands r by n on every side.
func (r Rect) Grow(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}

// BoundsError reports an operation whose target lies outside the grid.
// Operations either clip or turn into a no-op; the error tells the caller
// which one happened.
type BoundsError struct {
	Op     string
	Rect   Rect
	Bounds Rect
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %v outside grid %v", e.Op, e.Rect, e.Bounds)
}
