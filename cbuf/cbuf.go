// ============================================================================
// FIXED-CAPACITY BYTE RING BUFFER
// ============================================================================
//
// Single-producer/single-consumer FIFO of bytes over caller-owned storage.
// The buffer never allocates: Init borrows a slice and only tracks cursors.
//
// Core capabilities:
//   - Non-blocking Put/Get reporting a Status instead of panicking
//   - Arbitrary capacity (no power-of-two requirement), modulo arithmetic
//   - Occupancy counter distinguishes full from empty without a spare slot
//
// Safety model:
//   - Not safe for concurrent use; callers serialize access externally
//   - Storage must outlive the buffer and must not be resized underneath it
//   - Bytes at storage[capacity:] are never read or written

package cbuf

import "errors"

// ============================================================================
// STATUS VOCABULARY
// ============================================================================

// Status is the outcome of a buffer operation.
type Status uint8

const (
	Ok           Status = iota // operation succeeded
	BufferFull                 // Put against a full buffer; nothing stored
	BufferEmpty                // Get against an empty buffer; output untouched
	ZeroCapacity               // Init with capacity 0; instance unusable
)

var (
	ErrBufferFull   = errors.New("cbuf: buffer full")
	ErrBufferEmpty  = errors.New("cbuf: buffer empty")
	ErrZeroCapacity = errors.New("cbuf: zero capacity")
)

var statusNames = [...]string{
	Ok:           "ok",
	BufferFull:   "buffer full",
	BufferEmpty:  "buffer empty",
	ZeroCapacity: "zero capacity",
}

// String returns the lower-case name of the status.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Err maps s to its sentinel error, or nil for Ok.
func (s Status) Err() error {
	switch s {
	case Ok:
		return nil
	case BufferFull:
		return ErrBufferFull
	case BufferEmpty:
		return ErrBufferEmpty
	case ZeroCapacity:
		return ErrZeroCapacity
	}
	return errors.New("cbuf: " + s.String())
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return 0, false
}

// ============================================================================
// CORE DATA STRUCTURE
// ============================================================================

// RingBuffer is a bounded byte FIFO. The zero value must be initialized
// with Init before use.
type RingBuffer struct {
	buf      []byte // borrowed storage, len(buf) == capacity
	head     uint32 // write cursor
	tail     uint32 // read cursor
	capacity uint32
	size     uint32
}

// Cursors is a read-only view of the buffer's bookkeeping.
type Cursors struct {
	Head     uint32 `json:"head"`
	Tail     uint32 `json:"tail"`
	Size     uint32 `json:"size"`
	Capacity uint32 `json:"capacity"`
}

// Init binds rb to storage[:capacity] and resets it to empty. Prior logical
// contents are discarded; the bytes themselves are not cleared.
//
// Returns ZeroCapacity without touching rb when capacity is 0. Panics if
// storage is shorter than capacity.
func (rb *RingBuffer) Init(storage []byte, capacity uint32) Status {
	if capacity == 0 {
		return ZeroCapacity
	}
	if uint64(len(storage)) < uint64(capacity) {
		panic("cbuf: storage shorter than capacity")
	}

	// Three-index slice caps the view so nothing past capacity is reachable.
	rb.buf = storage[:capacity:capacity]
	rb.capacity = capacity
	rb.head = 0
	rb.tail = 0
	rb.size = 0
	return Ok
}

// ============================================================================
// INTROSPECTION
// ============================================================================

// IsEmpty reports whether the buffer holds no bytes.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) IsEmpty() bool {
	return rb.size == 0
}

// IsFull reports whether the buffer holds Capacity bytes.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) IsFull() bool {
	return rb.size == rb.capacity
}

// Size returns the number of stored bytes.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) Size() uint32 {
	return rb.size
}

// Capacity returns the fixed capacity set by Init.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) Capacity() uint32 {
	return rb.capacity
}

// Cursors snapshots the write/read positions and occupancy.
func (rb *RingBuffer) Cursors() Cursors {
	return Cursors{
		Head:     rb.head,
		Tail:     rb.tail,
		Size:     rb.size,
		Capacity: rb.capacity,
	}
}

// ============================================================================
// PRODUCER / CONSUMER OPERATIONS
// ============================================================================

// Put appends v at the write cursor. Returns BufferFull, with storage and
// cursors unchanged, when the buffer is at capacity.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) Put(v byte) Status {
	if rb.size == rb.capacity {
		return BufferFull
	}
	rb.buf[rb.head] = v
	rb.head++
	if rb.head == rb.capacity {
		rb.head = 0
	}
	rb.size++
	return Ok
}

// Get removes the oldest byte into *dst. On BufferEmpty *dst keeps whatever
// the caller had there.
//
//go:nosplit
//go:inline
func (rb *RingBuffer) Get(dst *byte) Status {
	if rb.size == 0 {
		return BufferEmpty
	}
	*dst = rb.buf[rb.tail]
	rb.tail++
	if rb.tail == rb.capacity {
		rb.tail = 0
	}
	rb.size--
	return Ok
}

// Pop is Get returning the value; the byte is 0 unless the status is Ok.
func (rb *RingBuffer) Pop() (byte, Status) {
	var v byte
	s := rb.Get(&v)
	return v, s
}
