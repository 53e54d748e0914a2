package storage

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bytering/cbuf"
)

func mmapSupported() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd", "openbsd":
		return true
	}
	return false
}

func TestOpen(t *testing.T) {
	for _, kind := range []string{KindHeap, KindMmap} {
		t.Run(kind, func(t *testing.T) {
			r, err := Open(kind, 64)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, 64, r.Len())
			assert.Len(t, r.Bytes(), 64)
			for i, b := range r.Bytes() {
				require.Zerof(t, b, "byte %d not zeroed", i)
			}
			if kind == KindMmap && !mmapSupported() {
				assert.Equal(t, KindHeap, r.Kind())
			} else {
				assert.Equal(t, kind, r.Kind())
			}
		})
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	_, err := Open(KindHeap, 0)
	assert.Error(t, err)

	_, err = Open(KindMmap, -1)
	assert.Error(t, err)

	_, err = Open("flash", 16)
	assert.EqualError(t, err, `storage: unknown backing "flash"`)
}

func TestCloseIsIdempotent(t *testing.T) {
	for _, kind := range []string{KindHeap, KindMmap} {
		t.Run(kind, func(t *testing.T) {
			r, err := Open(kind, 4096)
			require.NoError(t, err)

			require.NoError(t, r.Close())
			assert.Nil(t, r.Bytes())
			assert.Zero(t, r.Len())
			assert.NoError(t, r.Close())
		})
	}
}

// TestRegionBacksRingBuffer runs a buffer over each region kind with slack
// past capacity and checks the slack is never touched.
func TestRegionBacksRingBuffer(t *testing.T) {
	const capacity = 7
	const slack = 9

	for _, kind := range []string{KindHeap, KindMmap} {
		t.Run(kind, func(t *testing.T) {
			r, err := Open(kind, capacity+slack)
			require.NoError(t, err)
			defer r.Close()

			raw := r.Bytes()
			for i := capacity; i < len(raw); i++ {
				raw[i] = 0xEE
			}

			var rb cbuf.RingBuffer
			require.Equal(t, cbuf.Ok, rb.Init(raw, capacity))

			for i := 0; i < 500; i++ {
				require.Equal(t, cbuf.Ok, rb.Put(byte(i)))
				if i%2 == 1 {
					v, s := rb.Pop()
					require.Equal(t, cbuf.Ok, s)
					require.Equal(t, byte(i-1), v)
					v, s = rb.Pop()
					require.Equal(t, cbuf.Ok, s)
					require.Equal(t, byte(i), v)
				}
			}
			assert.True(t, rb.IsEmpty())
			for i := capacity; i < len(raw); i++ {
				assert.Equalf(t, byte(0xEE), raw[i], "slack byte %d", i)
			}
		})
	}
}
