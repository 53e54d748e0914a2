//go:build linux || darwin || freebsd || netbsd || openbsd

package storage

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Mapped returns an n-byte anonymous private mapping. Pages are zero-filled
// by the kernel and live outside the Go heap until Close unmaps them.
func Mapped(n int) (*Region, error) {
	if n <= 0 {
		return nil, errors.Errorf("storage: region size must be > 0, got %d", n)
	}
	buf, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: mmap %d bytes", n)
	}
	return &Region{buf: buf, kind: KindMmap, release: unix.Munmap}, nil
}
