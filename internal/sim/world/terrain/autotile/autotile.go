// Package autotile picks ground sprites at ground-type boundaries and
// removes neighborhoods no boundary sprite can draw.
package autotile

import (
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/logic/mathx"
)

type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeEdge
	ShapeOuterCorner
	ShapeInnerCorner
	ShapeFull
	ShapeIrregular
)

var shapeNames = [...]string{"none", "edge", "outer_corner", "inner_corner", "full", "irregular"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// Natural reports whether reduction leaves a tile of this shape alone.
func (s Shape) Natural() bool {
	switch s {
	case ShapeNone, ShapeEdge, ShapeOuterCorner, ShapeInnerCorner:
		return true
	}
	return false
}

const orthogonal = grid.Top | grid.Right | grid.Bottom | grid.Left

// Neighborhood is the comparison of a tile's ground against its eight
// neighbors. Neighbors outside the grid count as the same ground.
type Neighborhood struct {
	Ground grid.Ground
	Same   grid.Direction
	Differ grid.Direction
	// Marker is set when some differing neighbor is water or beach.
	Marker bool
}

func Analyze(g *grid.Grid, p grid.Point) Neighborhood {
	t := g.At(p)
	if t == nil {
		return Neighborhood{}
	}
	n := Neighborhood{Ground: t.GroundType()}
	for _, d := range grid.Neighbors {
		nt := g.Neighbor(p, d)
		if nt == nil || nt.GroundType() == n.Ground {
			n.Same |= d
			continue
		}
		n.Differ |= d
		if nt.GroundType().Marker() {
			n.Marker = true
		}
	}
	return n
}

// far lists, per edge side, the diagonals on the opposite side.
var far = map[grid.Direction]grid.Direction{
	grid.Top:    grid.BottomLeft | grid.BottomRight,
	grid.Bottom: grid.TopLeft | grid.TopRight,
	grid.Left:   grid.TopRight | grid.BottomRight,
	grid.Right:  grid.TopLeft | grid.BottomLeft,
}

// corners maps a pair of orthogonal sides to the diagonal between them.
var corners = map[grid.Direction]grid.Direction{
	grid.Top | grid.Left:     grid.TopLeft,
	grid.Top | grid.Right:    grid.TopRight,
	grid.Bottom | grid.Left:  grid.BottomLeft,
	grid.Bottom | grid.Right: grid.BottomRight,
}

var opposite = map[grid.Direction]grid.Direction{
	grid.TopLeft:     grid.BottomRight,
	grid.TopRight:    grid.BottomLeft,
	grid.BottomLeft:  grid.TopRight,
	grid.BottomRight: grid.TopLeft,
}

// Shape classifies the neighborhood. The returned direction is the side
// (edges) or diagonal (corners) the boundary faces; it is zero for None,
// Full and Irregular.
func (n Neighborhood) Shape() (Shape, grid.Direction) {
	d := n.Differ & grid.Compass
	switch {
	case d == 0:
		return ShapeNone, 0
	case d == grid.Compass:
		return ShapeFull, 0
	}
	orth := d & orthogonal
	if orth == 0 && d.Count() == 1 {
		return ShapeInnerCorner, d
	}
	if orth.Count() == 1 && d&far[orth] == 0 {
		return ShapeEdge, orth
	}
	if c, ok := corners[orth]; ok && d&opposite[c] == 0 {
		return ShapeOuterCorner, c
	}
	return ShapeIrregular, 0
}

type pattern struct {
	offset uint16
	flip   grid.Flip
}

var edgePatterns = map[grid.Direction]pattern{
	grid.Top:    {0, grid.FlipNone},
	grid.Bottom: {0, grid.FlipVertical},
	grid.Left:   {1, grid.FlipNone},
	grid.Right:  {1, grid.FlipHorizontal},
}

var cornerFlips = map[grid.Direction]grid.Flip{
	grid.TopLeft:     grid.FlipNone,
	grid.TopRight:    grid.FlipHorizontal,
	grid.BottomLeft:  grid.FlipVertical,
	grid.BottomRight: grid.FlipBoth,
}

const (
	offsetOuterCorner = 2
	offsetInnerCorner = 3
	offsetFull        = 4
)

func (n Neighborhood) pattern() pattern {
	shape, dir := n.Shape()
	switch shape {
	case ShapeEdge:
		return edgePatterns[dir]
	case ShapeOuterCorner:
		return pattern{offsetOuterCorner, cornerFlips[dir]}
	case ShapeInnerCorner:
		return pattern{offsetInnerCorner, cornerFlips[dir]}
	case ShapeFull:
		return pattern{offsetFull, grid.FlipNone}
	}
	for _, d := range grid.Neighbors {
		if d&orthogonal != 0 && n.Differ&d != 0 {
			return edgePatterns[d]
		}
	}
	for _, d := range grid.Neighbors {
		if n.Differ&d != 0 {
			return pattern{offsetInnerCorner, cornerFlips[d]}
		}
	}
	return pattern{}
}

// Result is a ground sprite choice for one tile.
type Result struct {
	Index uint16
	Flip  grid.Flip
}

// PlainAt returns the plain variant of gr used at p. The variant is a
// hash of the position so repeated passes agree.
func PlainAt(gr grid.Ground, p grid.Point) uint16 {
	return grid.FamilyOf(gr).Plain(mathx.Hash2(0, p.X, p.Y))
}

// Fix computes the ground sprite for the tile at p. ok is false when the
// tile already shows the right sprite.
func Fix(g *grid.Grid, p grid.Point) (res Result, ok bool) {
	t := g.At(p)
	if t == nil {
		return Result{}, false
	}
	n := Analyze(g, p)
	fam := grid.FamilyOf(n.Ground)

	shape, _ := n.Shape()
	if n.Ground == grid.Water || shape == ShapeNone {
		if fam.IsPlain(t.Ground) && t.Flip == grid.FlipNone {
			return Result{}, false
		}
		return Result{Index: PlainAt(n.Ground, p)}, true
	}

	pt := n.pattern()
	res = Result{Index: fam.Boundary(!n.Marker, pt.offset), Flip: pt.flip}
	if res.Index == t.Ground && res.Flip == t.Flip {
		return Result{}, false
	}
	return res, true
}

// Apply runs Fix at p and writes the result. It reports whether the tile
// changed.
func Apply(g *grid.Grid, p grid.Point) bool {
	res, ok := Fix(g, p)
	if ok {
		g.SetGround(p, res.Index, res.Flip)
	}
	return ok
}

// BoundaryPass fixes every tile of rect (clipped to the grid) and returns
// the number of tiles changed. It never changes a tile's ground type, so
// the result does not depend on visiting order.
func BoundaryPass(g *grid.Grid, rect grid.Rect) int {
	rect = rect.Intersect(g.Bounds())
	changed := 0
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			if Apply(g, grid.Point{X: x, Y: y}) {
				changed++
			}
		}
	}
	return changed
}

const maxReducePasses = 64

// Reduce replaces the ground of tiles whose neighborhood is not a natural
// junction with the majority ground among their neighbors, repeating
// until nothing changes. It returns the number of ground changes.
func Reduce(g *grid.Grid, rect grid.Rect) int {
	rect = rect.Intersect(g.Bounds())
	total := 0
	for pass := 0; pass < maxReducePasses; pass++ {
		changed := 0
		for y := rect.Y; y < rect.Y+rect.H; y++ {
			for x := rect.X; x < rect.X+rect.W; x++ {
				p := grid.Point{X: x, Y: y}
				n := Analyze(g, p)
				if shape, _ := n.Shape(); shape.Natural() {
					continue
				}
				m := majority(g, p)
				if m == n.Ground {
					continue
				}
				g.SetGround(p, PlainAt(m, p), grid.FlipNone)
				changed++
			}
		}
		total += changed
		if changed == 0 {
			break
		}
	}
	return total
}

// majority returns the most common ground among the in-grid neighbors
// of p; ties go to the earlier ground type.
func majority(g *grid.Grid, p grid.Point) grid.Ground {
	var counts [grid.NumGrounds]int
	for _, d := range grid.Neighbors {
		if nt := g.Neighbor(p, d); nt != nil {
			counts[nt.GroundType()]++
		}
	}
	best := grid.Ground(0)
	for i, c := range counts {
		if c > counts[best] {
			best = grid.Ground(i)
		}
	}
	return best
}

// FixRegion reduces rect and then runs the boundary pass over rect grown
// by one tile, since a changed ground alters its neighbors' boundaries.
func FixRegion(g *grid.Grid, rect grid.Rect) int {
	n := Reduce(g, rect)
	return n + BoundaryPass(g, rect.Grow(1))
}
