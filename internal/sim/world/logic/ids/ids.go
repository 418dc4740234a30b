package ids

// Allocator hands out UIDs for sprite layers and the objects anchored to
// them. The counter only moves forward: Next never returns a value that was
// handed out before, and Observe never lowers it.
type Allocator struct {
	next uint32
}

// NewAllocator starts at first, or 1 when first is zero. UID 0 is reserved
// for "no object" in the legacy format.
func NewAllocator(first uint32) *Allocator {
	if first == 0 {
		first = 1
	}
	return &Allocator{next: first}
}

// Next returns a fresh UID.
func (a *Allocator) Next() uint32 {
	uid := a.next
	a.next++
	return uid
}

// Peek reports the value the next call to Next would return.
func (a *Allocator) Peek() uint32 { return a.next }

// Observe bumps the counter past uid so it can never be reissued.
func (a *Allocator) Observe(uid uint32) {
	if uid >= a.next {
		a.next = uid + 1
	}
}

// Reset moves the counter to at least n.
func (a *Allocator) Reset(n uint32) {
	a.next = MaxU32(a.next, n)
}

func MaxU32(a, b uint32) uint32 {
	if a >= b {
		return a
	}
	return b
}
