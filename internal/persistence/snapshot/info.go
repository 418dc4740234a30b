package snapshot

import (
	"encoding/binary"
	"fmt"
)

// InfoVersion is the layout version of the info sub-block.
const InfoVersion = 1

const infoSize = 37

// Info holds the header fields readers need without parsing the whole
// document (map lists, scenario pickers).
type Info struct {
	Width, Height  int
	Difficulty     uint8
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

func EncodeInfo(in Info) []byte {
	b := make([]byte, infoSize)
	le := binary.LittleEndian
	le.PutUint16(b[0:], InfoVersion)
	le.PutUint16(b[2:], uint16(in.Width))
	le.PutUint16(b[4:], uint16(in.Height))
	b[6] = in.Difficulty
	b[7] = in.KingdomColors
	b[8] = in.HumanColors
	b[9] = in.ComputerColors
	copy(b[10:16], in.Races[:])
	b[16] = in.VictoryCondition
	b[17] = boolByte(in.CompAlsoWins)
	b[18] = boolByte(in.AllowNormalVictory)
	le.PutUint32(b[19:], in.VictoryParams[0])
	le.PutUint32(b[23:], in.VictoryParams[1])
	b[27] = in.LossCondition
	le.PutUint32(b[28:], in.LossParams[0])
	le.PutUint32(b[32:], in.LossParams[1])
	b[36] = boolByte(in.StartWithHero)
	return b
}

func DecodeInfo(b []byte) (Info, error) {
	var in Info
	if len(b) < 2 {
		return in, fmt.Errorf("info block: %d bytes", len(b))
	}
	le := binary.LittleEndian
	if v := int(le.Uint16(b)); v < 1 || v > InfoVersion {
		return in, &FormatVersionError{What: "info", Got: v, Min: 1, Max: InfoVersion}
	}
	if len(b) < infoSize {
		return in, fmt.Errorf("info block: %d bytes, want %d", len(b), infoSize)
	}
	in.Width = int(le.Uint16(b[2:]))
	in.Height = int(le.Uint16(b[4:]))
	in.Difficulty = b[6]
	in.KingdomColors = b[7]
	in.HumanColors = b[8]
	in.ComputerColors = b[9]
	copy(in.Races[:], b[10:16])
	in.VictoryCondition = b[16]
	in.CompAlsoWins = b[17] != 0
	in.AllowNormalVictory = b[18] != 0
	in.VictoryParams = [2]uint32{le.Uint32(b[19:]), le.Uint32(b[23:])}
	in.LossCondition = b[27]
	in.LossParams = [2]uint32{le.Uint32(b[28:]), le.Uint32(b[32:])}
	in.StartWithHero = b[36] != 0
	return in, nil
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
