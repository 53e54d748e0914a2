// ============================================================================
// CALLER-OWNED BACKING REGIONS
// ============================================================================
//
// cbuf.RingBuffer borrows its bytes and never allocates. This package is
// where an application gets those bytes from: the Go heap, or an anonymous
// off-heap mapping that the garbage collector never scans or moves.
//
// Ownership model:
//   - The Region owns the memory; the ring buffer only borrows Bytes()
//   - Close releases the memory; a buffer over a closed region is invalid
//   - Close is idempotent

package storage

import (
	"github.com/pkg/errors"
)

// Backing kinds accepted by Open.
const (
	KindHeap = "heap"
	KindMmap = "mmap"
)

// Region is a contiguous byte range handed to cbuf.RingBuffer.Init.
type Region struct {
	buf     []byte
	kind    string
	release func([]byte) error
}

// Heap returns a region backed by a Go slice of n bytes.
func Heap(n int) *Region {
	return &Region{buf: make([]byte, n), kind: KindHeap}
}

// Open returns an n-byte region of the given kind.
func Open(kind string, n int) (*Region, error) {
	if n <= 0 {
		return nil, errors.Errorf("storage: region size must be > 0, got %d", n)
	}
	switch kind {
	case KindHeap:
		return Heap(n), nil
	case KindMmap:
		return Mapped(n)
	}
	return nil, errors.Errorf("storage: unknown backing %q", kind)
}

// Bytes returns the region's memory, or nil once closed.
func (r *Region) Bytes() []byte { return r.buf }

// Len is len(Bytes()).
func (r *Region) Len() int { return len(r.buf) }

// Kind reports which allocator actually backs the region. Mapped falls back
// to the heap on platforms without mmap, so this may differ from the request.
func (r *Region) Kind() string { return r.kind }

// Close releases the memory. Safe to call more than once.
func (r *Region) Close() error {
	buf := r.buf
	r.buf = nil
	if buf == nil || r.release == nil {
		return nil
	}
	release := r.release
	r.release = nil
	return errors.Wrap(release(buf), "storage: release "+r.kind)
}
