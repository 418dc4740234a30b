package world

import (
	"fmt"

	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/logic/ids"
	"mapedit.ai/internal/sim/world/objects"
)

// MapInfo is the scenario header of a map.
type MapInfo struct {
	Name        string
	Description string
	Difficulty  uint8

	// 6-bit color masks.
	KingdomColors  uint8
	HumanColors    uint8
	ComputerColors uint8
	Races          [6]uint8

	VictoryCondition   uint8
	CompAlsoWins       bool
	AllowNormalVictory bool
	VictoryParams      [2]uint32
	LossCondition      uint8
	LossParams         [2]uint32

	StartWithHero bool
}

// Area is one editable map: the tile grid, the objects anchored on it and
// the UID allocator both share. An Area is single-writer; wrap it in an
// Editor when more than one goroutine edits.
type Area struct {
	Info MapInfo

	grid *grid.Grid
	objs *objects.Registry
	uids *ids.Allocator

	Rumors      []objects.Rumor
	DayEvents   []objects.DayEvent
	TownSlots   []objects.TownSlot
	Capturables []objects.Capturable
	Obelisks    int
}

// NewArea returns a width x height area of plain water.
func NewArea(width, height int, src grid.SpriteInfoSource) (*Area, error) {
	g, err := grid.New(width, height, src)
	if err != nil {
		return nil, err
	}
	return newAreaFromGrid(g), nil
}

func newAreaFromGrid(g *grid.Grid) *Area {
	return &Area{
		grid: g,
		objs: objects.NewRegistry(),
		uids: ids.NewAllocator(1),
	}
}

func (a *Area) Grid() *grid.Grid              { return a.grid }
func (a *Area) Objects() *objects.Registry    { return a.objs }
func (a *Area) Source() grid.SpriteInfoSource { return a.grid.Source() }
func (a *Area) Width() int                    { return a.grid.Width() }
func (a *Area) Height() int                   { return a.grid.Height() }
func (a *Area) Bounds() grid.Rect             { return a.grid.Bounds() }

// NextUID reports the value the allocator hands out next. Every UID live
// in the area is strictly below it.
func (a *Area) NextUID() uint32 { return a.uids.Peek() }

// Passability is the effective mask at p; nothing is passable off-grid.
func (a *Area) Passability(p grid.Point) grid.Direction { return a.grid.Passability(p) }

// GroundSummary returns one ground per tile in linear order, for minimaps.
func (a *Area) GroundSummary() []grid.Ground { return a.grid.GroundSummary() }

// Clone deep-copies the area; the copy allocates independently.
func (a *Area) Clone() *Area {
	c := &Area{
		Info:     a.Info,
		grid:     a.grid.Clone(),
		objs:     a.objs.Clone(),
		uids:     ids.NewAllocator(a.uids.Peek()),
		Obelisks: a.Obelisks,
	}
	c.Rumors = append([]objects.Rumor(nil), a.Rumors...)
	c.DayEvents = append([]objects.DayEvent(nil), a.DayEvents...)
	c.TownSlots = append([]objects.TownSlot(nil), a.TownSlots...)
	c.Capturables = append([]objects.Capturable(nil), a.Capturables...)
	return c
}

// CheckUIDs verifies the identity invariants: every object is anchored on
// a layer carrying its UID at its position, and no UID at or above the
// allocator counter is live.
func (a *Area) CheckUIDs() error {
	next := a.uids.Peek()
	for uid := range a.grid.UIDs() {
		if uid >= next {
			return fmt.Errorf("layer uid %d not below counter %d", uid, next)
		}
	}
	for _, o := range a.objs.All() {
		h := o.Head()
		if h.UID >= next {
			return fmt.Errorf("%v uid %d not below counter %d", o.Kind(), h.UID, next)
		}
		t := a.grid.At(h.Pos)
		if t == nil {
			return fmt.Errorf("%v uid %d anchored off-grid at %v", o.Kind(), h.UID, h.Pos)
		}
		if !t.HasUID(h.UID) {
			return fmt.Errorf("%v uid %d has no layer at %v", o.Kind(), h.UID, h.Pos)
		}
	}
	return nil
}

// observeUIDs bumps the allocator past every UID present.
func (a *Area) observeUIDs() {
	a.uids.Observe(a.grid.MaxUID())
	a.uids.Observe(a.objs.MaxUID())
}
