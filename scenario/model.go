package scenario

import (
	"math/rand/v2"
	"strconv"

	"bytering/cbuf"
)

// Model is a slice-backed reference FIFO with the same status contract as
// cbuf.RingBuffer. It allocates freely and exists only to compute expected
// outcomes.
type Model struct {
	capacity int
	q        []byte
}

// NewModel returns an empty model holding at most capacity bytes.
func NewModel(capacity uint32) *Model {
	return &Model{capacity: int(capacity)}
}

// Put mirrors cbuf.RingBuffer.Put.
func (m *Model) Put(v byte) cbuf.Status {
	if len(m.q) == m.capacity {
		return cbuf.BufferFull
	}
	m.q = append(m.q, v)
	return cbuf.Ok
}

// Get mirrors cbuf.RingBuffer.Pop.
func (m *Model) Get() (byte, cbuf.Status) {
	if len(m.q) == 0 {
		return 0, cbuf.BufferEmpty
	}
	v := m.q[0]
	m.q = m.q[1:]
	return v, cbuf.Ok
}

// Size is the number of queued bytes.
func (m *Model) Size() int { return len(m.q) }

// Random generates an n-step put/get script for a buffer of the given
// capacity, with every step's status and value predicted by Model. Puts and
// gets are drawn with equal probability so both full and empty edges are hit.
// A negative n yields an empty script.
func Random(seed uint64, n int, capacity, slack uint32) Scenario {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	m := NewModel(capacity)

	sc := Scenario{
		Name:     "random-" + strconv.FormatUint(seed, 10),
		Capacity: capacity,
		Slack:    slack,
		Ops:      make([]Op, 0, n),
	}
	for i := 0; i < n; i++ {
		if rng.IntN(2) == 0 {
			v := uint8(rng.UintN(256))
			sc.Ops = append(sc.Ops, Op{Op: OpPut, Value: v, Expect: m.Put(v).String()})
			continue
		}
		v, s := m.Get()
		op := Op{Op: OpGet, Expect: s.String()}
		if s == cbuf.Ok {
			op.Want = &v
		}
		sc.Ops = append(sc.Ops, op)
	}
	return sc
}
