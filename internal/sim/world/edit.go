package world

import (
	"context"
	"errors"
	"fmt"

	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
	"mapedit.ai/internal/sim/world/terrain/autotile"
	"mapedit.ai/internal/sim/world/terrain/gen"
)

// Part is one sprite of a composite placed at an offset from the cursor.
// The layer's UID is ignored; Place assigns one for all parts.
type Part struct {
	DX, DY int
	Layer  grid.SpriteLayer
	Anchor bool
}

// Composite is what the host places: sprites plus an optional object
// anchored at the part flagged Anchor (the first part when none is).
type Composite struct {
	Parts  []Part
	Object objects.Object
}

var ErrEmptyComposite = errors.New("world: composite has no parts")

func (c Composite) anchor() Part {
	for _, p := range c.Parts {
		if p.Anchor {
			return p
		}
	}
	return c.Parts[0]
}

// Place stamps c at p under one fresh UID. Parts that fall off the grid
// are clipped; an anchor off the grid is a *grid.BoundsError and nothing
// changes. The object, when present, is cloned and registered at the
// anchor with the same UID.
func (a *Area) Place(c Composite, p grid.Point) (uint32, error) {
	if len(c.Parts) == 0 {
		return 0, ErrEmptyComposite
	}
	anchor := c.anchor()
	at := p.Add(anchor.DX, anchor.DY)
	if !a.grid.InBounds(at) {
		return 0, &grid.BoundsError{Op: "place", Rect: grid.RectAt(at, 1, 1), Bounds: a.grid.Bounds()}
	}

	uid := a.uids.Next()
	for _, part := range c.Parts {
		l := part.Layer
		l.UID = uid
		a.grid.AddLayer(p.Add(part.DX, part.DY), l)
	}
	if c.Object != nil {
		o := c.Object.Clone()
		h := o.Head()
		h.UID = uid
		h.Pos = at
		if err := a.objs.Add(o); err != nil {
			// uid is fresh, so this only fails on a corrupted registry
			a.grid.RemoveUID(uid)
			return 0, fmt.Errorf("place: %w", err)
		}
	}
	return uid, nil
}

// Remove drops every layer carrying uid and the object registered under
// it. It returns how many tiles changed and whether an object was removed.
func (a *Area) Remove(uid uint32) (int, bool) {
	if uid == 0 {
		return 0, false
	}
	n := a.grid.RemoveUID(uid)
	_, ok := a.objs.Remove(uid)
	return n, ok
}

// SetGround paints one tile with a plain variant of gr and refreshes the
// boundary sprites of it and its neighbors. It returns how many tiles the
// boundary pass rewrote.
func (a *Area) SetGround(p grid.Point, gr grid.Ground) (int, error) {
	if !a.grid.InBounds(p) {
		return 0, &grid.BoundsError{Op: "set ground", Rect: grid.RectAt(p, 1, 1), Bounds: a.grid.Bounds()}
	}
	if int(gr) >= grid.NumGrounds {
		return 0, fmt.Errorf("set ground: unknown ground %d", gr)
	}
	a.grid.SetGround(p, autotile.PlainAt(gr, p), grid.FlipNone)
	return autotile.BoundaryPass(a.grid, grid.RectAt(p, 1, 1).Grow(1)), nil
}

func (a *Area) SetPassabilityOverride(p grid.Point, mask grid.Direction) error {
	if !a.grid.InBounds(p) {
		return &grid.BoundsError{Op: "set passability", Rect: grid.RectAt(p, 1, 1), Bounds: a.grid.Bounds()}
	}
	a.grid.SetOverride(p, mask)
	return nil
}

func (a *Area) ClearPassabilityOverride(p grid.Point) error {
	if !a.grid.InBounds(p) {
		return &grid.BoundsError{Op: "clear passability", Rect: grid.RectAt(p, 1, 1), Bounds: a.grid.Bounds()}
	}
	a.grid.ClearOverride(p)
	return nil
}

// FixRegion normalizes ground boundaries inside rect, clipped to the grid.
func (a *Area) FixRegion(rect grid.Rect) (int, error) {
	clip := rect.Intersect(a.grid.Bounds())
	if clip.Empty() {
		return 0, &grid.BoundsError{Op: "fix region", Rect: rect, Bounds: a.grid.Bounds()}
	}
	return autotile.FixRegion(a.grid, clip), nil
}

// Generate replaces the ground of the whole area. Layers and objects are
// kept. On error the area is unchanged.
func (a *Area) Generate(ctx context.Context, p gen.Params) error {
	return gen.Generate(ctx, a.grid, p)
}
