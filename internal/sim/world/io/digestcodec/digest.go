// Package digestcodec writes values into a hash in a fixed byte layout so
// equal states always produce equal digests.
package digestcodec

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"
)

type Writer struct {
	h   hash.Hash
	tmp [8]byte
}

func New() *Writer {
	return &Writer{h: sha256.New()}
}

func (w *Writer) U8(v uint8) {
	w.tmp[0] = v
	w.h.Write(w.tmp[:1])
}

func (w *Writer) U16(v uint16) {
	binary.LittleEndian.PutUint16(w.tmp[:], v)
	w.h.Write(w.tmp[:2])
}

func (w *Writer) U32(v uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:], v)
	w.h.Write(w.tmp[:4])
}

func (w *Writer) I64(v int64) {
	binary.LittleEndian.PutUint64(w.tmp[:], uint64(v))
	w.h.Write(w.tmp[:8])
}

func (w *Writer) Bool(v bool) { w.U8(BoolByte(v)) }

// String is length-prefixed so adjacent strings cannot run together.
func (w *Writer) String(s string) {
	w.U32(uint32(len(s)))
	w.h.Write([]byte(s))
}

func (w *Writer) Bytes(b []byte) {
	w.U32(uint32(len(b)))
	w.h.Write(b)
}

// SortedU32s writes the set in ascending order, prefixed by its size.
func (w *Writer) SortedU32s(set map[uint32]struct{}) {
	keys := make([]uint32, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	w.U32(uint32(len(keys)))
	for _, k := range keys {
		w.U32(k)
	}
}

// Sum returns the hex digest. The writer stays usable.
func (w *Writer) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}

func BoolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
