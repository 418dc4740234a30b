package grid

import "fmt"

// MaxSide bounds either grid dimension.
const MaxSide = 1024

// Grid is a fixed-size array of tiles. Tiles are created once and never
// destroyed individually; only their contents change.
type Grid struct {
	width, height int
	tiles         []Tile
	src           SpriteInfoSource
}

// New builds a width x height grid of plain water tiles.
func New(width, height int, src SpriteInfoSource) (*Grid, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("grid: invalid size %dx%d", width, height)
	}
	if src == nil {
		src = OpenSource
	}
	g := &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
		src:    src,
	}
	plain := FamilyOf(Water).Plain(0)
	for i := range g.tiles {
		g.tiles[i] = Tile{Index: i, Ground: plain, base: DirectionAll}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Len() int    { return len(g.tiles) }

func (g *Grid) Bounds() Rect { return Rect{W: g.width, H: g.height} }

func (g *Grid) Source() SpriteInfoSource { return g.src }

func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *Grid) IndexOf(p Point) int { return p.X + p.Y*g.width }

func (g *Grid) PointOf(index int) Point {
	return Point{X: index % g.width, Y: index / g.width}
}

// At returns the tile at p, or nil outside the grid.
func (g *Grid) At(p Point) *Tile {
	if !g.InBounds(p) {
		return nil
	}
	return &g.tiles[g.IndexOf(p)]
}

// TileAt returns the tile with the given linear index, or nil.
func (g *Grid) TileAt(index int) *Tile {
	if index < 0 || index >= len(g.tiles) {
		return nil
	}
	return &g.tiles[index]
}

// Neighbor returns the tile one step from p in direction d, or nil.
func (g *Grid) Neighbor(p Point, d Direction) *Tile {
	dx, dy := d.Offset()
	return g.At(p.Add(dx, dy))
}

// Each calls fn for every tile in linear order.
func (g *Grid) Each(fn func(p Point, t *Tile)) {
	for i := range g.tiles {
		fn(g.PointOf(i), &g.tiles[i])
	}
}

func (g *Grid) SetGround(p Point, index uint16, flip Flip) {
	if t := g.At(p); t != nil {
		t.Ground = index
		t.Flip = flip & FlipBoth
	}
}

// AddLayer appends l to the tile at p. It reports false outside the grid.
func (g *Grid) AddLayer(p Point, l SpriteLayer) bool {
	t := g.At(p)
	if t == nil {
		return false
	}
	t.addLayer(l, g.src)
	return true
}

// RemoveLayer drops every layer with uid from the tile at p.
func (g *Grid) RemoveLayer(p Point, uid uint32) bool {
	t := g.At(p)
	if t == nil {
		return false
	}
	return t.removeLayer(uid, g.src)
}

// RemoveUID sweeps every tile and returns how many tiles lost a layer.
func (g *Grid) RemoveUID(uid uint32) int {
	n := 0
	for i := range g.tiles {
		if g.tiles[i].removeLayer(uid, g.src) {
			n++
		}
	}
	return n
}

// RenameUID moves every layer carrying from to to and returns how many
// tiles changed. Sprite data is untouched, so derived state stays valid.
func (g *Grid) RenameUID(from, to uint32) int {
	n := 0
	for i := range g.tiles {
		t := &g.tiles[i]
		hit := false
		for j := range t.Bottom {
			if t.Bottom[j].UID == from {
				t.Bottom[j].UID = to
				hit = true
			}
		}
		for j := range t.Top {
			if t.Top[j].UID == from {
				t.Top[j].UID = to
				hit = true
			}
		}
		if hit {
			n++
		}
	}
	return n
}

// ReplaceLayers swaps a tile's layer stacks wholesale and recomputes.
func (g *Grid) ReplaceLayers(p Point, layers []SpriteLayer) {
	t := g.At(p)
	if t == nil {
		return
	}
	t.Bottom, t.Top = nil, nil
	for _, l := range layers {
		t.addLayer(l, g.src)
	}
	t.recompute(g.src)
}

func (g *Grid) SetOverride(p Point, mask Direction) {
	if t := g.At(p); t != nil {
		t.override = mask & DirectionAll
		t.hasOverride = true
	}
}

func (g *Grid) ClearOverride(p Point) {
	if t := g.At(p); t != nil {
		t.override = 0
		t.hasOverride = false
	}
}

// Passability returns the effective mask at p; outside the grid nothing
// is passable.
func (g *Grid) Passability(p Point) Direction {
	t := g.At(p)
	if t == nil {
		return DirectionNone
	}
	return t.Passability()
}

// Recompute refreshes every tile's derived state, e.g. after the catalog
// has been swapped.
func (g *Grid) Recompute() {
	for i := range g.tiles {
		g.tiles[i].recompute(g.src)
	}
}

// UIDs returns the set of UIDs present on any layer.
func (g *Grid) UIDs() map[uint32]struct{} {
	out := map[uint32]struct{}{}
	for i := range g.tiles {
		for _, l := range g.tiles[i].Bottom {
			out[l.UID] = struct{}{}
		}
		for _, l := range g.tiles[i].Top {
			out[l.UID] = struct{}{}
		}
	}
	return out
}

// MaxUID returns the largest UID present on any layer, 0 if none.
func (g *Grid) MaxUID() uint32 {
	var m uint32
	for uid := range g.UIDs() {
		if uid > m {
			m = uid
		}
	}
	return m
}

// GroundSummary returns one ground type per tile in linear order.
func (g *Grid) GroundSummary() []Ground {
	out := make([]Ground, len(g.tiles))
	for i := range g.tiles {
		out[i] = g.tiles[i].GroundType()
	}
	return out
}

// Clone deep-copies the grid, sharing the info source.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, src: g.src, tiles: make([]Tile, len(g.tiles))}
	for i := range g.tiles {
		c.tiles[i] = g.tiles[i].Clone()
	}
	return c
}

// CopyTile overwrites the tile at dst with a copy of t's ground, layers
// and override. The destination keeps its own index.
func (g *Grid) CopyTile(dst Point, t *Tile) {
	d := g.At(dst)
	if d == nil || t == nil {
		return
	}
	idx := d.Index
	*d = t.Clone()
	d.Index = idx
	d.recompute(g.src)
}
