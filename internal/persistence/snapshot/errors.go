package snapshot

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks a compressed container that is too short or declares
// an impossible size.
var ErrCorrupt = errors.New("snapshot: corrupt container")

type FormatVersionError struct {
	// What names the versioned part: "document", "container" or "info".
	What     string
	Got      int
	Min, Max int
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("snapshot %s version %d unsupported (want %d..%d)", e.What, e.Got, e.Min, e.Max)
}

type ChecksumError struct {
	// What is "crc32" or "length".
	What      string
	Want, Got uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("snapshot %s mismatch: want 0x%08X got 0x%08X", e.What, e.Want, e.Got)
}
