package mp2codec

import "fmt"

// DecodeError is fatal: the buffer is malformed or truncated and no map is
// produced.
type DecodeError struct {
	Offset int
	Op     string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mp2 decode %s at 0x%X: %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Warning records an item that was skipped while decoding continued.
type Warning struct {
	Offset int
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("0x%X: %s", w.Offset, w.Msg)
}
