package world

import (
	"io"
	"log"

	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/io/mp2codec"
	"mapedit.ai/internal/sim/world/objects"
)

// LoadLegacy decodes a legacy map into a fresh Area. Decoded objects are
// bound to the UID of the action layer on their tile; objects without one
// are dropped with a warning. Nothing is returned on a decode error.
func LoadLegacy(raw []byte, src grid.SpriteInfoSource, logger *log.Logger) (*Area, []mp2codec.Warning, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m, err := mp2codec.Decode(raw, src, logger)
	if err != nil {
		return nil, nil, err
	}

	a := newAreaFromGrid(m.Grid)
	h := m.Header
	a.Info = MapInfo{
		Name:               h.Name,
		Description:        h.Description,
		Difficulty:         uint8(h.Difficulty),
		KingdomColors:      h.KingdomColors,
		HumanColors:        h.HumanColors,
		ComputerColors:     h.ComputerColors,
		Races:              h.Races,
		VictoryCondition:   h.VictoryCondition,
		CompAlsoWins:       h.CompAlsoWins,
		AllowNormalVictory: h.AllowNormalVictory,
		VictoryParams:      [2]uint32{uint32(h.VictoryParams[0]), uint32(h.VictoryParams[1])},
		LossCondition:      h.LossCondition,
		LossParams:         [2]uint32{uint32(h.LossParams[0]), uint32(h.LossParams[1])},
		StartWithHero:      h.StartWithHero,
	}
	a.Rumors = m.Rumors
	a.DayEvents = m.DayEvents
	a.TownSlots = m.TownSlots
	a.Capturables = m.Capturables
	a.Obelisks = m.Obelisks

	b := binder{a: a, logger: logger, warnings: m.Warnings}
	for _, o := range m.Towns {
		b.bind(o)
	}
	for _, o := range m.Heroes {
		b.bind(o)
	}
	for _, o := range m.Signs {
		b.bind(o)
	}
	for _, o := range m.Events {
		b.bind(o)
	}
	for _, o := range m.Sphinxes {
		b.bind(o)
	}
	for _, o := range m.Resources {
		b.bind(o)
	}
	for _, o := range m.Monsters {
		b.bind(o)
	}
	for _, o := range m.Artifacts {
		b.bind(o)
	}

	a.uids.Reset(m.UIDCounter)
	a.observeUIDs()
	return a, b.warnings, nil
}

type binder struct {
	a        *Area
	logger   *log.Logger
	warnings []mp2codec.Warning
}

func (b *binder) warn(o objects.Object, msg string) {
	p := o.Head().Pos
	w := mp2codec.Warning{
		Offset: mp2codec.HeaderSize + b.a.grid.IndexOf(p)*mp2codec.TileSize,
		Msg:    o.Kind().String() + " at " + p.String() + ": " + msg,
	}
	b.warnings = append(b.warnings, w)
	b.logger.Printf("warning %s", w)
}

func (b *binder) bind(o objects.Object) {
	h := o.Head()
	t := b.a.grid.At(h.Pos)
	if t == nil {
		b.warn(o, "off grid; dropped")
		return
	}
	l, ok := t.ActionLayer(b.a.grid.Source())
	if !ok || l.UID == 0 {
		b.warn(o, "no action layer; dropped")
		return
	}
	h.UID = l.UID
	if err := b.a.objs.Add(o); err != nil {
		b.warn(o, err.Error()+"; dropped")
	}
}
