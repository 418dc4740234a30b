package mp2codec

import (
	"errors"
	"fmt"

	"mapedit.ai/internal/sim/world/grid"
)

const (
	Magic      uint32 = 0x5C
	HeaderSize        = 428

	offDifficulty    = 0x004
	offKingdomColors = 0x008
	offHumanColors   = 0x00E
	offCompColors    = 0x014
	offVictoryCond   = 0x01D
	offCompAlsoWins  = 0x01E
	offAllowNormal   = 0x01F
	offVictoryParam1 = 0x020
	offLossCond      = 0x022
	offLossParam1    = 0x023
	offStartHero     = 0x025
	offRaces         = 0x026
	offVictoryParam2 = 0x02C
	offLossParam2    = 0x02E
	offName          = 0x03A
	offDescription   = 0x076
	offWidth         = 0x1A4
	offHeight        = 0x1A8

	nameSize        = 16
	descriptionSize = 143
)

type Header struct {
	Difficulty uint16

	// 6-bit color masks, bit i = player color i.
	KingdomColors  uint8
	HumanColors    uint8
	ComputerColors uint8
	Races          [6]uint8

	VictoryCondition   uint8
	CompAlsoWins       bool
	AllowNormalVictory bool
	VictoryParams      [2]uint16
	LossCondition      uint8
	LossParams         [2]uint16

	StartWithHero bool
	Name          string
	Description   string

	Width, Height int
}

var errBadMagic = errors.New("bad magic")

func decodeHeader(r *reader) (Header, error) {
	var h Header
	b, err := r.bytes("header", HeaderSize)
	if err != nil {
		return h, err
	}
	if m := le32(b); m != Magic {
		return h, &DecodeError{Offset: 0, Op: "header", Err: fmt.Errorf("%w 0x%X", errBadMagic, m)}
	}
	h.Difficulty = le16(b[offDifficulty:])
	h.KingdomColors = colorMask(b[offKingdomColors : offKingdomColors+6])
	h.HumanColors = colorMask(b[offHumanColors : offHumanColors+6])
	h.ComputerColors = colorMask(b[offCompColors : offCompColors+6])
	copy(h.Races[:], b[offRaces:offRaces+6])

	h.VictoryCondition = b[offVictoryCond]
	h.CompAlsoWins = b[offCompAlsoWins] != 0
	h.AllowNormalVictory = b[offAllowNormal] != 0
	h.VictoryParams = [2]uint16{le16(b[offVictoryParam1:]), le16(b[offVictoryParam2:])}
	h.LossCondition = b[offLossCond]
	h.LossParams = [2]uint16{le16(b[offLossParam1:]), le16(b[offLossParam2:])}
	h.StartWithHero = b[offStartHero] != 0

	h.Name = cstring(b[offName : offName+nameSize])
	h.Description = cstring(b[offDescription : offDescription+descriptionSize])

	w, hh := le32(b[offWidth:]), le32(b[offHeight:])
	if w == 0 || hh == 0 || w > grid.MaxSide || hh > grid.MaxSide {
		return h, &DecodeError{Offset: offWidth, Op: "header", Err: fmt.Errorf("bad map size %dx%d", w, hh)}
	}
	h.Width, h.Height = int(w), int(hh)
	return h, nil
}

func colorMask(b []byte) uint8 {
	var m uint8
	for i, v := range b {
		if v != 0 {
			m |= 1 << i
		}
	}
	return m
}
