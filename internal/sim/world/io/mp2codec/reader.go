package mp2codec

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated marks a read past the end of the buffer.
var ErrTruncated = errors.New("unexpected end of data")

// reader is a little-endian cursor that refuses to read past the end.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) need(op string, n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return &DecodeError{Offset: r.pos, Op: op, Err: ErrTruncated}
	}
	return nil
}

func (r *reader) u8(op string) (uint8, error) {
	if err := r.need(op, 1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16(op string) (uint16, error) {
	if err := r.need(op, 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32(op string) (uint32, error) {
	if err := r.need(op, 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// bytes returns a view of the next n bytes without copying.
func (r *reader) bytes(op string, n int) ([]byte, error) {
	if err := r.need(op, n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// cstring decodes a NUL-terminated Latin-1 string out of a fixed field.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

func le16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
