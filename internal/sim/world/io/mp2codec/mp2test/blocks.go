package mp2test

import "encoding/binary"

func putText(dst []byte, s string) {
	copy(dst, s)
}

func TownBlock(name string, color, race uint8, isCastle bool) []byte {
	b := make([]byte, 70)
	b[0] = color
	b[18] = 1
	putText(b[19:31], name)
	b[32] = race
	if isCastle {
		b[33] = 1
	}
	return b
}

func HeroBlock(name string, portrait uint8, experience uint32) []byte {
	b := make([]byte, 76)
	b[17] = 1
	b[18] = portrait
	b[19], b[20], b[21] = 0xFF, 0xFF, 0xFF
	binary.LittleEndian.PutUint32(b[23:], experience)
	b[45] = 1
	putText(b[46:58], name)
	b[61] = 0xFF
	return b
}

func SignBlock(text string) []byte {
	b := make([]byte, 9+len(text)+1)
	b[0] = 0x01
	putText(b[9:], text)
	return b
}

func EventBlock(gold int32, colors uint8, message string) []byte {
	b := make([]byte, 49+len(message)+1)
	b[0] = 0x01
	binary.LittleEndian.PutUint32(b[1+6*4:], uint32(gold))
	b[31] = 1
	for i := 0; i < 6; i++ {
		b[43+i] = bit(colors, i)
	}
	putText(b[49:], message)
	return b
}

func DayEventBlock(firstDay, period uint16, message string) []byte {
	b := make([]byte, 49+len(message)+1)
	binary.LittleEndian.PutUint16(b[32:], firstDay)
	binary.LittleEndian.PutUint16(b[34:], period)
	putText(b[49:], message)
	return b
}

func RumorBlock(text string) []byte {
	b := make([]byte, 8+len(text)+1)
	putText(b[8:], text)
	return b
}

func SphinxBlock(question string, answers ...string) []byte {
	b := make([]byte, 138+len(question)+1)
	b[31] = byte(len(answers))
	for i, a := range answers {
		putText(b[32+i*13:32+i*13+12], a)
	}
	putText(b[138:], question)
	return b
}
