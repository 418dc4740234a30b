package mp2codec

import (
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

// Special block sizes. Towns and heroes must match exactly; the text
// carrying blocks only have a minimum.
const (
	TownBlockSize    = 70
	HeroBlockSize    = 76
	SignBlockMin     = 10
	RumorBlockMin    = 9
	EventBlockMin    = 50
	SphinxBlockMin   = 138
	sphinxAnswerSize = 13
	sphinxAnswers    = 8

	TownSlots       = 72
	CapturableSlots = 144
)

// Map object type bytes of the tiles that own special blocks.
var (
	typeCastle = grid.ClassCastle.Action()
	typeHeroes = grid.ClassHeroes.Action()
	typeJail   = grid.ClassJail.Action()
	typeSign   = grid.ClassSign.Action()
	typeBottle = grid.ClassBottle.Action()
	typeEvent  = grid.ClassEvent.Action()
	typeSphinx = grid.ClassSphinx.Action()
)

func ownsBlock(objectType uint8) bool {
	switch grid.Class(objectType) {
	case typeCastle, typeHeroes, typeJail, typeSign, typeBottle, typeEvent, typeSphinx:
		return true
	}
	return false
}

type rawBlock struct {
	offset int
	data   []byte
}

func decodeCoordTable(r *reader, op string, n int) ([][3]uint8, error) {
	b, err := r.bytes(op, n*3)
	if err != nil {
		return nil, err
	}
	var out [][3]uint8
	for i := 0; i < n; i++ {
		e := [3]uint8{b[i*3], b[i*3+1], b[i*3+2]}
		if e[0] == 0xFF && e[1] == 0xFF {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// decodeBlocks reads the count prefix and the size-prefixed payloads. The
// count is stored as a run of u16 values ended by zero; the last non-zero
// value is one past the block count.
func decodeBlocks(r *reader) ([]rawBlock, error) {
	count := 0
	for {
		v, err := r.u16("block count")
		if err != nil {
			return nil, err
		}
		if v == 0 {
			break
		}
		count = int(v) - 1
	}
	blocks := make([]rawBlock, 0, count)
	for i := 0; i < count; i++ {
		size, err := r.u16("block size")
		if err != nil {
			return nil, err
		}
		off := r.pos
		data, err := r.bytes("block", int(size))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, rawBlock{offset: off, data: data})
	}
	return blocks, nil
}

func (d *decoder) applyOwnedBlock(b rawBlock, t rawTile, pos grid.Point) {
	data := b.data
	switch grid.Class(t.objectType) {
	case typeCastle:
		if len(data) != TownBlockSize {
			d.warn(b.offset, "town block at %v: size %d, want %d", pos, len(data), TownBlockSize)
			return
		}
		d.m.Towns = append(d.m.Towns, parseTown(data, pos))
	case typeHeroes, typeJail:
		if len(data) != HeroBlockSize {
			d.warn(b.offset, "hero block at %v: size %d, want %d", pos, len(data), HeroBlockSize)
			return
		}
		h := parseHero(data, pos)
		h.Jailed = grid.Class(t.objectType) == typeJail
		d.m.Heroes = append(d.m.Heroes, h)
	case typeSign, typeBottle:
		if len(data) < SignBlockMin || data[0] != 0x01 {
			d.warn(b.offset, "sign block at %v: bad shape (size %d)", pos, len(data))
			return
		}
		d.m.Signs = append(d.m.Signs, &objects.Sign{
			Header: objects.Header{Pos: pos},
			Bottle: grid.Class(t.objectType) == typeBottle,
			Text:   cstring(data[9:]),
		})
	case typeEvent:
		if len(data) < EventBlockMin || data[0] != 0x01 {
			d.warn(b.offset, "event block at %v: bad shape (size %d)", pos, len(data))
			return
		}
		d.m.Events = append(d.m.Events, &objects.Event{
			Header:                objects.Header{Pos: pos},
			Resources:             parseFunds(data[1:29]),
			Artifact:              le16(data[29:]),
			AllowComputer:         data[31] != 0,
			CancelAfterFirstVisit: data[32] != 0,
			Colors:                colorMask(data[43:49]),
			Message:               cstring(data[49:]),
		})
	case typeSphinx:
		if len(data) < SphinxBlockMin || data[0] != 0x00 {
			d.warn(b.offset, "sphinx block at %v: bad shape (size %d)", pos, len(data))
			return
		}
		d.m.Sphinxes = append(d.m.Sphinxes, parseSphinx(data, pos))
	}
}

// applyLooseBlock handles blocks no tile points at: day events and rumors.
func (d *decoder) applyLooseBlock(b rawBlock) {
	data := b.data
	if len(data) == 0 || data[0] != 0x00 {
		d.warn(b.offset, "unowned block with tag %s skipped", tagString(data))
		return
	}
	switch {
	case len(data) >= EventBlockMin:
		d.m.DayEvents = append(d.m.DayEvents, objects.DayEvent{
			Resources:     parseFunds(data[1:29]),
			AllowComputer: data[31] != 0,
			FirstDay:      le16(data[32:]),
			RepeatPeriod:  le16(data[34:]),
			Colors:        colorMask(data[43:49]),
			Message:       cstring(data[49:]),
		})
	case len(data) >= RumorBlockMin:
		if text := cstring(data[8:]); text != "" {
			d.m.Rumors = append(d.m.Rumors, objects.Rumor{Text: text})
		}
	default:
		d.warn(b.offset, "unowned block of size %d skipped", len(data))
	}
}

func tagString(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}
	const hex = "0123456789ABCDEF"
	return "0x" + string([]byte{hex[data[0]>>4], hex[data[0]&0x0F]})
}

func parseFunds(b []byte) objects.Funds {
	var f objects.Funds
	for i := range f {
		f[i] = int32(le32(b[i*4:]))
	}
	return f
}

func parseTroops(b []byte) [5]objects.Troop {
	var t [5]objects.Troop
	for i := range t {
		t[i] = objects.Troop{Monster: b[i], Count: le16(b[5+i*2:])}
	}
	return t
}

func parseTown(data []byte, pos grid.Point) *objects.Town {
	return &objects.Town{
		Header:          objects.Header{Pos: pos},
		Color:           ownerColor(data[0]),
		CustomTroops:    data[1] != 0,
		Troops:          parseTroops(data[2:17]),
		HasCaptain:      data[17] != 0,
		CustomName:      data[18] != 0,
		Name:            cstring(data[19:32]),
		Race:            data[32],
		IsCastle:        data[33] != 0,
		AllowCastle:     data[34] != 0,
		CustomBuildings: data[35] != 0,
		Buildings:       le32(data[36:]),
	}
}

func parseHero(data []byte, pos grid.Point) *objects.Hero {
	h := &objects.Hero{
		Header:         objects.Header{Pos: pos},
		CustomTroops:   data[1] != 0,
		Troops:         parseTroops(data[2:17]),
		CustomPortrait: data[17] != 0,
		Portrait:       data[18],
		Experience:     le32(data[23:]),
		CustomSkills:   data[27] != 0,
		CustomName:     data[45] != 0,
		Name:           cstring(data[46:59]),
		Patrol:         data[59] != 0,
		PatrolRadius:   data[60],
		Color:          ownerColor(data[61]),
		Race:           data[62],
	}
	copy(h.Artifacts[:], data[19:22])
	for i := range h.Skills {
		h.Skills[i] = objects.Skill{ID: data[28+i], Level: data[36+i]}
	}
	return h
}

func parseSphinx(data []byte, pos grid.Point) *objects.Sphinx {
	s := &objects.Sphinx{
		Header:    objects.Header{Pos: pos},
		Resources: parseFunds(data[1:29]),
		Artifact:  le16(data[29:]),
		Question:  cstring(data[SphinxBlockMin:]),
	}
	n := int(data[31])
	if n > sphinxAnswers {
		n = sphinxAnswers
	}
	for i := 0; i < n; i++ {
		off := 32 + i*sphinxAnswerSize
		if a := cstring(data[off : off+sphinxAnswerSize]); a != "" {
			s.Answers = append(s.Answers, a)
		}
	}
	return s
}

// ownerColor converts a legacy color index (0..5, 0xFF = neutral) into a
// single-bit mask.
func ownerColor(v uint8) uint8 {
	if v > 5 {
		return objects.ColorNone
	}
	return 1 << v
}
