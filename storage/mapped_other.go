//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package storage

import "github.com/pkg/errors"

// Mapped falls back to a heap region where anonymous mappings are unavailable.
func Mapped(n int) (*Region, error) {
	if n <= 0 {
		return nil, errors.Errorf("storage: region size must be > 0, got %d", n)
	}
	return Heap(n), nil
}
