package world

import (
	"errors"
	"fmt"

	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

// ImportArea copies srcRect of src to dst with its top-left at dstPt and
// returns the destination rectangle actually written.
//
// The rectangle is clipped to both grids. When nothing of it lands on dst
// the result is a *grid.BoundsError and dst is untouched. Otherwise:
// objects anchored in the target are unregistered from dst and their
// layers are overwritten inside the target only, so parts outside it stay
// as object-less decoration; every object anchored in the copied source
// region is cloned under a fresh dst UID; every copied layer is renumbered
// through that table, and layers with no object get one fresh UID per
// distinct source UID. src and dst may be the same area; the source region
// is read in full before dst changes. Importing a region onto itself also
// renumbers the parts outside the target, so composites cut by the
// rectangle stay grouped under the new UID.
func ImportArea(dst, src *Area, srcRect grid.Rect, dstPt grid.Point) (grid.Rect, error) {
	dx, dy := dstPt.X-srcRect.X, dstPt.Y-srcRect.Y
	target := srcRect.Intersect(src.Bounds()).Translate(dx, dy).Intersect(dst.Bounds())
	if target.Empty() {
		return grid.Rect{}, &grid.BoundsError{Op: "import area", Rect: srcRect.Translate(dx, dy), Bounds: dst.Bounds()}
	}
	from := target.Translate(-dx, -dy)
	inPlace := dst == src && dx == 0 && dy == 0

	// Snapshot the source region.
	tiles := make([]grid.Tile, 0, from.W*from.H)
	for y := from.Y; y < from.Y+from.H; y++ {
		for x := from.X; x < from.X+from.W; x++ {
			tiles = append(tiles, src.grid.At(grid.Point{X: x, Y: y}).Clone())
		}
	}
	var objs []objects.Object
	for _, o := range src.objs.Within(from) {
		objs = append(objs, o.Clone())
	}

	for _, o := range dst.objs.Within(target) {
		dst.objs.Remove(o.Head().UID)
	}

	remap := make(map[uint32]uint32, len(objs))
	for _, o := range objs {
		h := o.Head()
		nu := dst.uids.Next()
		remap[h.UID] = nu
		h.UID = nu
		h.Pos = h.Pos.Add(dx, dy)
	}
	translate := func(uid uint32) uint32 {
		if nu, ok := remap[uid]; ok {
			return nu
		}
		nu := dst.uids.Next()
		remap[uid] = nu
		return nu
	}

	i := 0
	for y := target.Y; y < target.Y+target.H; y++ {
		for x := target.X; x < target.X+target.W; x++ {
			t := &tiles[i]
			i++
			for j := range t.Bottom {
				t.Bottom[j].UID = translate(t.Bottom[j].UID)
			}
			for j := range t.Top {
				t.Top[j].UID = translate(t.Top[j].UID)
			}
			dst.grid.CopyTile(grid.Point{X: x, Y: y}, t)
		}
	}
	for _, o := range objs {
		if err := dst.objs.Add(o); err != nil {
			// UIDs are fresh, so this only fails on a corrupted registry
			dst.grid.RemoveUID(o.Head().UID)
			return target, fmt.Errorf("import area: %w", err)
		}
	}
	if inPlace {
		// Old UIDs now survive only outside the target. Objects still
		// registered under one are anchored outside and keep it.
		for old, nu := range remap {
			if _, live := dst.objs.Get(old); !live {
				dst.grid.RenameUID(old, nu)
			}
		}
	}
	return target, nil
}

var ErrClipboardEmpty = errors.New("world: clipboard is empty")

// Clipboard holds a detached copy of a region. It is owned by the host and
// outlives any single Area, so a copy survives loading another map.
type Clipboard struct {
	area *Area
}

// Copy detaches rect of a, clipped to its bounds, into the clipboard.
func (c *Clipboard) Copy(a *Area, rect grid.Rect) (grid.Rect, error) {
	clip := rect.Intersect(a.Bounds())
	if clip.Empty() {
		return grid.Rect{}, &grid.BoundsError{Op: "copy", Rect: rect, Bounds: a.Bounds()}
	}
	sub, err := NewArea(clip.W, clip.H, a.Source())
	if err != nil {
		return grid.Rect{}, err
	}
	if _, err := ImportArea(sub, a, clip, grid.Point{}); err != nil {
		return grid.Rect{}, err
	}
	c.area = sub
	return clip, nil
}

// Paste imports the clipboard into dst with its top-left at p.
func (c *Clipboard) Paste(dst *Area, p grid.Point) (grid.Rect, error) {
	if c.area == nil {
		return grid.Rect{}, ErrClipboardEmpty
	}
	return ImportArea(dst, c.area, c.area.Bounds(), p)
}

func (c *Clipboard) Empty() bool { return c.area == nil }

// Size reports the copied extent, 0x0 when empty.
func (c *Clipboard) Size() (w, h int) {
	if c.area == nil {
		return 0, 0
	}
	return c.area.Width(), c.area.Height()
}

func (c *Clipboard) Clear() { c.area = nil }
