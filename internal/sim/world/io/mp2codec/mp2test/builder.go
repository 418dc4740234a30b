// Package mp2test assembles legacy map buffers for tests.
package mp2test

import (
	"bytes"
	"encoding/binary"
)

type Layer struct {
	Sheet uint8
	Index uint8
	Order uint8
	UID   uint32
}

func (l *Layer) objectName() uint8 {
	if l == nil {
		return 0
	}
	return l.Sheet<<2 | l.Order&0x03
}

func (l *Layer) index() uint8 {
	if l == nil {
		return 0
	}
	return l.Index
}

func (l *Layer) uid() uint32 {
	if l == nil {
		return 0
	}
	return l.UID
}

// Extension is one record of a tile's extension chain.
type Extension struct {
	Bottom, Top *Layer
}

type Tile struct {
	Ground     uint16
	Flip       uint8
	Bottom     *Layer
	Top        *Layer
	ObjectType uint8
	Quantity   uint16
	Extensions []Extension
}

type Builder struct {
	Width, Height int

	Name, Description string
	Difficulty        uint16
	Kingdom           uint8
	Human             uint8
	Computer          uint8
	Races             [6]uint8
	VictoryCondition  uint8
	VictoryParams     [2]uint16
	LossCondition     uint8
	LossParams        [2]uint16
	StartWithHero     bool

	Tiles       []Tile
	TownSlots   [][3]uint8
	Capturables [][3]uint8
	Obelisks    uint8
	Blocks      [][]byte
	UIDCounter  uint32

	// RawExtensions, when set, replaces the pool built from Tiles so tests
	// can write broken chains.
	RawExtensions [][15]byte
}

// New returns a w x h builder with every tile set to plain grass.
func New(w, h int) *Builder {
	b := &Builder{Width: w, Height: h, Tiles: make([]Tile, w*h)}
	for i := range b.Tiles {
		b.Tiles[i].Ground = 62
	}
	return b
}

func (b *Builder) Tile(x, y int) *Tile { return &b.Tiles[x+y*b.Width] }

// AddBlock appends a special block and returns its index.
func (b *Builder) AddBlock(data []byte) int {
	b.Blocks = append(b.Blocks, data)
	return len(b.Blocks) - 1
}

// Own points tile (x,y) at block index i with the given object type byte.
func (b *Builder) Own(x, y int, objectType uint8, i int) {
	t := b.Tile(x, y)
	t.ObjectType = objectType
	t.Quantity = uint16(i+1) << 3
}

func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	hdr := make([]byte, 428)
	le.PutUint32(hdr[0:], 0x5C)
	le.PutUint16(hdr[0x004:], b.Difficulty)
	hdr[0x006] = byte(b.Width)
	hdr[0x007] = byte(b.Height)
	for i := 0; i < 6; i++ {
		hdr[0x008+i] = bit(b.Kingdom, i)
		hdr[0x00E+i] = bit(b.Human, i)
		hdr[0x014+i] = bit(b.Computer, i)
		hdr[0x026+i] = b.Races[i]
	}
	hdr[0x01D] = b.VictoryCondition
	le.PutUint16(hdr[0x020:], b.VictoryParams[0])
	hdr[0x022] = b.LossCondition
	le.PutUint16(hdr[0x023:], b.LossParams[0])
	if b.StartWithHero {
		hdr[0x025] = 1
	}
	le.PutUint16(hdr[0x02C:], b.VictoryParams[1])
	le.PutUint16(hdr[0x02E:], b.LossParams[1])
	copy(hdr[0x03A:0x03A+15], b.Name)
	copy(hdr[0x076:0x076+142], b.Description)
	le.PutUint32(hdr[0x1A4:], uint32(b.Width))
	le.PutUint32(hdr[0x1A8:], uint32(b.Height))
	buf.Write(hdr)

	// index 0 terminates chains, so the pool starts with a dummy record
	pool := [][15]byte{{}}
	next := make([]uint16, len(b.Tiles))
	for i, t := range b.Tiles {
		if len(t.Extensions) == 0 {
			continue
		}
		next[i] = uint16(len(pool))
		for j, e := range t.Extensions {
			var rec [15]byte
			if j+1 < len(t.Extensions) {
				le.PutUint16(rec[0:], uint16(len(pool)+1))
			}
			rec[2] = e.Bottom.objectName()
			rec[3] = e.Bottom.index()
			rec[5] = e.Top.objectName()
			rec[6] = e.Top.index()
			le.PutUint32(rec[7:], e.Bottom.uid())
			le.PutUint32(rec[11:], e.Top.uid())
			pool = append(pool, rec)
		}
	}
	if b.RawExtensions != nil {
		pool = b.RawExtensions
	}

	for i, t := range b.Tiles {
		rec := make([]byte, 20)
		le.PutUint16(rec[0:], t.Ground)
		rec[2] = t.Bottom.objectName()
		rec[3] = t.Bottom.index()
		rec[4] = byte(t.Quantity)
		rec[5] = byte(t.Quantity >> 8)
		rec[6] = t.Top.objectName()
		rec[7] = t.Top.index()
		rec[8] = t.Flip & 0x03
		rec[9] = t.ObjectType
		le.PutUint16(rec[10:], next[i])
		le.PutUint32(rec[12:], t.Bottom.uid())
		le.PutUint32(rec[16:], t.Top.uid())
		buf.Write(rec)
	}

	var u32 [4]byte
	le.PutUint32(u32[:], uint32(len(pool)))
	buf.Write(u32[:])
	for _, rec := range pool {
		buf.Write(rec[:])
	}

	writeTable(&buf, b.TownSlots, 72)
	writeTable(&buf, b.Capturables, 144)
	buf.WriteByte(b.Obelisks)

	var u16 [2]byte
	if len(b.Blocks) > 0 {
		le.PutUint16(u16[:], uint16(len(b.Blocks)+1))
		buf.Write(u16[:])
	}
	buf.Write([]byte{0, 0})
	for _, data := range b.Blocks {
		le.PutUint16(u16[:], uint16(len(data)))
		buf.Write(u16[:])
		buf.Write(data)
	}

	le.PutUint32(u32[:], b.UIDCounter)
	buf.Write(u32[:])
	return buf.Bytes()
}

func writeTable(buf *bytes.Buffer, entries [][3]uint8, n int) {
	for i := 0; i < n; i++ {
		if i < len(entries) {
			buf.Write(entries[i][:])
			continue
		}
		buf.Write([]byte{0xFF, 0xFF, 0xFF})
	}
}

func bit(mask uint8, i int) byte {
	if mask&(1<<i) != 0 {
		return 1
	}
	return 0
}
