package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"
)

var containerMagic = []byte("MAPZ")

const (
	containerHeaderSize = 10
	checksumSize        = 4

	// MaxDecodedSize caps the declared length of a compressed document.
	MaxDecodedSize = 512 << 20
)

// Format describes how a document was stored. It is a per-load result;
// nothing in this package keeps it between calls.
type Format struct {
	Version    int
	Compressed bool
}

// Encode serializes m. A zero header version is filled with
// CurrentVersion. In compressed mode the JSON is wrapped as
// "MAPZ" | u16 version | u32 length | zstd payload | u32 crc32, the
// checksum covering everything before it.
func Encode(m MapV3, compress bool) ([]byte, error) {
	if m.Header.Version == 0 {
		m.Header.Version = CurrentVersion
	}
	js, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("snapshot json: %w", err)
	}
	if !compress {
		return js, nil
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	payload := enc.EncodeAll(js, nil)
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, containerHeaderSize+len(payload)+checksumSize)
	buf = append(buf, containerMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(m.Header.Version))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(js)))
	buf = append(buf, payload...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	return buf, nil
}

// Decode parses raw in either storage mode. Nothing is returned unless
// the checksum, versions and schema all pass.
func Decode(raw []byte) (MapV3, Format, error) {
	var f Format
	js := raw
	if bytes.HasPrefix(raw, containerMagic) {
		var err error
		js, f.Version, err = openContainer(raw)
		if err != nil {
			return MapV3{}, f, err
		}
		f.Compressed = true
	}

	m, err := decodeJSON(js)
	if err != nil {
		return MapV3{}, f, err
	}
	if f.Compressed && m.Header.Version != f.Version {
		return MapV3{}, f, fmt.Errorf("snapshot: container version %d, document version %d", f.Version, m.Header.Version)
	}
	f.Version = m.Header.Version
	return m, f, nil
}

func openContainer(raw []byte) ([]byte, int, error) {
	if len(raw) < containerHeaderSize+checksumSize {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(raw))
	}
	body := raw[:len(raw)-checksumSize]
	want := binary.LittleEndian.Uint32(raw[len(raw)-checksumSize:])
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, 0, &ChecksumError{What: "crc32", Want: want, Got: got}
	}

	version := int(binary.LittleEndian.Uint16(body[4:]))
	if err := checkVersion("container", version); err != nil {
		return nil, version, err
	}
	n := binary.LittleEndian.Uint32(body[6:])
	if n > MaxDecodedSize {
		return nil, version, fmt.Errorf("%w: declared length %d", ErrCorrupt, n)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		return nil, version, err
	}
	defer dec.Close()
	js, err := dec.DecodeAll(body[containerHeaderSize:], make([]byte, 0, n))
	if err != nil {
		return nil, version, fmt.Errorf("snapshot zstd: %w", err)
	}
	if uint32(len(js)) != n {
		return nil, version, &ChecksumError{What: "length", Want: n, Got: uint32(len(js))}
	}
	return js, version, nil
}

func checkVersion(what string, v int) error {
	if v < MinSupportedVersion || v > CurrentVersion {
		return &FormatVersionError{What: what, Got: v, Min: MinSupportedVersion, Max: CurrentVersion}
	}
	return nil
}

func decodeJSON(js []byte) (MapV3, error) {
	var peek struct {
		Header struct {
			Version int `json:"version"`
		} `json:"header"`
	}
	if err := json.Unmarshal(js, &peek); err != nil {
		return MapV3{}, fmt.Errorf("snapshot json: %w", err)
	}
	if err := checkVersion("document", peek.Header.Version); err != nil {
		return MapV3{}, err
	}

	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return MapV3{}, fmt.Errorf("snapshot json: %w", err)
	}
	sch, err := documentSchema()
	if err != nil {
		return MapV3{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return MapV3{}, fmt.Errorf("snapshot schema: %w", err)
	}

	var m MapV3
	if err := json.Unmarshal(js, &m); err != nil {
		return MapV3{}, fmt.Errorf("snapshot json: %w", err)
	}
	return m, nil
}
