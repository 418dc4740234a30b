package grid

import "sort"

type Flip uint8

const (
	FlipVertical Flip = 1 << iota
	FlipHorizontal

	FlipNone Flip = 0
	FlipBoth      = FlipVertical | FlipHorizontal
)

// Orientation maps flip flags to the quarter-turn the ground image shows.
func (f Flip) Orientation() int {
	switch f & FlipBoth {
	case FlipHorizontal:
		return 90
	case FlipBoth:
		return 180
	case FlipVertical:
		return 270
	}
	return 0
}

type Tile struct {
	Index  int
	Ground uint16
	Flip   Flip

	// Bottom is kept sorted by Order descending, Top by Order ascending.
	// Mutate through Grid so the derived fields stay in sync.
	Bottom []SpriteLayer
	Top    []SpriteLayer

	class       Class
	base        Direction
	override    Direction
	hasOverride bool
}

func (t *Tile) GroundType() Ground { return GroundOf(t.Ground) }

func (t *Tile) Class() Class { return t.class }

func (t *Tile) BasePassability() Direction { return t.base }

// Passability is the override when one is set, else the base mask.
func (t *Tile) Passability() Direction {
	if t.hasOverride {
		return t.override
	}
	return t.base
}

func (t *Tile) Override() (Direction, bool) { return t.override, t.hasOverride }

// Layers returns bottom then top layers in paint order.
func (t *Tile) Layers() []SpriteLayer {
	out := make([]SpriteLayer, 0, len(t.Bottom)+len(t.Top))
	out = append(out, t.Bottom...)
	return append(out, t.Top...)
}

func (t *Tile) HasUID(uid uint32) bool {
	for _, l := range t.Bottom {
		if l.UID == uid {
			return true
		}
	}
	for _, l := range t.Top {
		if l.UID == uid {
			return true
		}
	}
	return false
}

// ActionLayer returns the topmost interactive layer of the bottom group.
func (t *Tile) ActionLayer(src SpriteInfoSource) (SpriteLayer, bool) {
	for i := len(t.Bottom) - 1; i >= 0; i-- {
		l := t.Bottom[i]
		if src.SpriteInfo(l.Sheet, l.Index).Action {
			return l, true
		}
	}
	return SpriteLayer{}, false
}

func (t *Tile) addLayer(l SpriteLayer, src SpriteInfoSource) {
	if l.Level == LevelTop {
		t.Top = append(t.Top, l)
		sort.SliceStable(t.Top, func(i, j int) bool { return t.Top[i].Order < t.Top[j].Order })
	} else {
		t.Bottom = append(t.Bottom, l)
		sort.SliceStable(t.Bottom, func(i, j int) bool { return t.Bottom[i].Order > t.Bottom[j].Order })
	}
	t.recompute(src)
}

func (t *Tile) removeLayer(uid uint32, src SpriteInfoSource) bool {
	n := len(t.Bottom) + len(t.Top)
	t.Bottom = dropUID(t.Bottom, uid)
	t.Top = dropUID(t.Top, uid)
	if len(t.Bottom)+len(t.Top) == n {
		return false
	}
	t.recompute(src)
	return true
}

func dropUID(ls []SpriteLayer, uid uint32) []SpriteLayer {
	out := ls[:0]
	for _, l := range ls {
		if l.UID != uid {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// recompute derives class and base passability from the layer stacks.
func (t *Tile) recompute(src SpriteInfoSource) {
	t.class = ClassNone
	t.base = DirectionAll

	for i := len(t.Bottom) - 1; i >= 0; i-- {
		info := src.SpriteInfo(t.Bottom[i].Sheet, t.Bottom[i].Index)
		if info.Action {
			t.class = info.Class.Action()
			t.base = info.Passability
			return
		}
	}

	for _, l := range t.Bottom {
		t.base &= src.SpriteInfo(l.Sheet, l.Index).Passability
	}
	switch {
	case len(t.Bottom) > 0:
		l := t.Bottom[len(t.Bottom)-1]
		t.class = src.SpriteInfo(l.Sheet, l.Index).Class.Base()
	case len(t.Top) > 0:
		l := t.Top[len(t.Top)-1]
		t.class = src.SpriteInfo(l.Sheet, l.Index).Class.Base()
	}
}

// Clone returns a copy of t that shares no layer storage with it.
func (t *Tile) Clone() Tile {
	c := *t
	if t.Bottom != nil {
		c.Bottom = append([]SpriteLayer(nil), t.Bottom...)
	}
	if t.Top != nil {
		c.Top = append([]SpriteLayer(nil), t.Top...)
	}
	return c
}
