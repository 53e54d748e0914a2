package scenario

import "bytering/cbuf"

// Script builders keep the builtin table readable.

func put(v uint8) Op { return Op{Op: OpPut, Value: v, Expect: cbuf.Ok.String()} }

func putFull(v uint8) Op { return Op{Op: OpPut, Value: v, Expect: cbuf.BufferFull.String()} }

func get(want uint8) Op { return Op{Op: OpGet, Want: &want, Expect: cbuf.Ok.String()} }

func getAny() Op { return Op{Op: OpGet, Expect: cbuf.Ok.String()} }

func getEmpty() Op { return Op{Op: OpGet, Expect: cbuf.BufferEmpty.String()} }

func repeat(n int, op Op) []Op {
	out := make([]Op, n)
	for i := range out {
		out[i] = op
	}
	return out
}

func concat(groups ...[]Op) []Op {
	var out []Op
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Builtin returns the conformance suite every backing kind must pass.
func Builtin() []Scenario {
	const c = 5

	pairs := make([]Op, 0, 200)
	for i := 0; i < 100; i++ {
		v := uint8(i % 255)
		pairs = append(pairs, put(v), get(v))
	}

	return []Scenario{
		{
			Name:     "fill-and-drain",
			Capacity: c,
			Ops: concat(
				[]Op{put(1), put(3), put(5), put(7), put(9)},
				[]Op{putFull(11)},
				[]Op{get(1), get(3), get(5), get(7), get(9)},
				[]Op{getEmpty()},
			),
		},
		{
			Name:     "paired-put-get",
			Capacity: c,
			Ops:      pairs,
		},
		{
			Name:     "empty-get-preserves-output",
			Capacity: c,
			Ops:      []Op{getEmpty(), getEmpty(), put(22), get(22), getEmpty()},
		},
		{
			Name:     "full-rejects-put",
			Capacity: c,
			Ops:      concat(repeat(c, put(2)), []Op{putFull(2), putFull(3)}, repeat(c, get(2))),
		},
		{
			Name:     "fill-get-one-put",
			Capacity: c,
			Ops:      concat(repeat(c, put(2)), []Op{getAny(), put(3)}, repeat(c-1, get(2)), []Op{get(3)}),
		},
		{
			Name:     "head-wraparound",
			Capacity: c,
			Slack:    2,
			Ops:      concat(repeat(2, put(1)), repeat(2, get(1)), repeat(c, put(2)), repeat(c, get(2))),
		},
		{
			Name:     "tail-wraparound",
			Capacity: c,
			Slack:    1,
			Ops:      concat(repeat(4, put(1)), repeat(4, get(1)), repeat(3, put(2)), repeat(3, get(2))),
		},
		{
			Name:     "reinit-discards-contents",
			Capacity: c,
			Ops: []Op{
				put(4), put(5),
				{Op: OpInit, Capacity: 3, Expect: cbuf.Ok.String()},
				getEmpty(),
				put(6), put(7), put(8), putFull(9),
				get(6), get(7), get(8),
			},
		},
		{
			Name:     "zero-capacity-init",
			Capacity: c,
			Ops: []Op{
				put(1),
				{Op: OpInit, Capacity: 0, Expect: cbuf.ZeroCapacity.String()},
				get(1),
			},
		},
	}
}
