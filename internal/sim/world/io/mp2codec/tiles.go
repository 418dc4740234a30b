package mp2codec

import (
	"fmt"

	"mapedit.ai/internal/sim/world/grid"
)

const (
	TileSize      = 20
	ExtensionSize = 15
)

// rawTile is one fixed-size tile record.
type rawTile struct {
	offset      int
	ground      uint16
	objectName1 uint8
	index1      uint8
	quantity1   uint8
	quantity2   uint8
	objectName2 uint8
	index2      uint8
	flags       uint8
	objectType  uint8
	next        uint16
	uid1        uint32
	uid2        uint32
}

// blockNumber is the special-block reference packed into the quantity
// bytes of tiles that own one.
func (t rawTile) blockNumber() int {
	return (int(t.quantity2)<<8 | int(t.quantity1)) >> 3
}

func (t rawTile) quantity() uint32 {
	return uint32(t.quantity1) | uint32(t.quantity2)<<8
}

type rawExtension struct {
	offset      int
	next        uint16
	objectName1 uint8
	index1      uint8
	objectName2 uint8
	index2      uint8
	uid1        uint32
	uid2        uint32
}

func decodeTiles(r *reader, count int) ([]rawTile, error) {
	if r.remaining() < count*TileSize {
		return nil, &DecodeError{
			Offset: r.pos,
			Op:     "tiles",
			Err:    fmt.Errorf("%w: need %d tile bytes, have %d", ErrTruncated, count*TileSize, r.remaining()),
		}
	}
	tiles := make([]rawTile, count)
	for i := range tiles {
		off := r.pos
		b, err := r.bytes("tiles", TileSize)
		if err != nil {
			return nil, err
		}
		tiles[i] = rawTile{
			offset:      off,
			ground:      le16(b[0:]),
			objectName1: b[2],
			index1:      b[3],
			quantity1:   b[4],
			quantity2:   b[5],
			objectName2: b[6],
			index2:      b[7],
			flags:       b[8],
			objectType:  b[9],
			next:        le16(b[10:]),
			uid1:        le32(b[12:]),
			uid2:        le32(b[16:]),
		}
	}
	return tiles, nil
}

func decodeExtensions(r *reader) ([]rawExtension, error) {
	n, err := r.u32("extensions")
	if err != nil {
		return nil, err
	}
	if int64(n)*ExtensionSize > int64(r.remaining()) {
		return nil, &DecodeError{Offset: r.pos, Op: "extensions", Err: fmt.Errorf("%w: %d records declared", ErrTruncated, n)}
	}
	ext := make([]rawExtension, n)
	for i := range ext {
		off := r.pos
		b, err := r.bytes("extensions", ExtensionSize)
		if err != nil {
			return nil, err
		}
		ext[i] = rawExtension{
			offset:      off,
			next:        le16(b[0:]),
			objectName1: b[2],
			index1:      b[3],
			objectName2: b[5],
			index2:      b[6],
			uid1:        le32(b[7:]),
			uid2:        le32(b[11:]),
		}
	}
	return ext, nil
}

// descriptor turns an (objectName, index, uid) triple into a layer. An
// objectName of zero means the slot is empty.
func descriptor(objectName, index uint8, uid uint32, level grid.Level) (grid.SpriteLayer, bool) {
	if objectName == 0 {
		return grid.SpriteLayer{}, false
	}
	return grid.SpriteLayer{
		Sheet: grid.SheetID(objectName >> 2),
		Index: index,
		Order: objectName & 0x03,
		Level: level,
		UID:   uid,
	}, true
}

// tileLayers flattens a tile's own descriptors and its extension chain into
// one ordered list. Broken chains are truncated with a warning.
func (d *decoder) tileLayers(t rawTile) []grid.SpriteLayer {
	var out []grid.SpriteLayer
	add := func(offset int, objectName, index uint8, uid uint32, level grid.Level) {
		l, ok := descriptor(objectName, index, uid, level)
		if !ok {
			return
		}
		if !d.src.Known(l.Sheet) {
			d.warn(offset, "unknown sprite sheet %d dropped", l.Sheet)
			return
		}
		if d.src.SpriteInfo(l.Sheet, l.Index).Animated {
			l.Flags |= grid.FlagAnimated
		}
		out = append(out, l)
	}
	add(t.offset, t.objectName1, t.index1, t.uid1, grid.LevelBottom)
	add(t.offset, t.objectName2, t.index2, t.uid2, grid.LevelTop)

	seen := map[uint16]bool{}
	for next := t.next; next != 0; {
		if int(next) >= len(d.ext) {
			d.warn(t.offset, "extension index %d out of range (%d records)", next, len(d.ext))
			break
		}
		if seen[next] {
			d.warn(t.offset, "extension chain loops at %d", next)
			break
		}
		seen[next] = true
		e := d.ext[next]
		add(e.offset, e.objectName1, e.index1, e.uid1, grid.LevelBottom)
		add(e.offset, e.objectName2, e.index2, e.uid2, grid.LevelTop)
		next = e.next
	}
	return out
}
