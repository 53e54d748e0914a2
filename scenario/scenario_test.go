package scenario

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bytering/cbuf"
	"bytering/constants"
)

func u8(v uint8) *uint8 { return &v }

func TestParseSingleObject(t *testing.T) {
	in := `{
		"name": "two-puts",
		"capacity": 2,
		"slack": 1,
		"ops": [
			{"op": "put", "value": 7},
			{"op": "put", "value": 9, "expect": "ok"},
			{"op": "put", "value": 1, "expect": "buffer full"},
			{"op": "get", "want": 7}
		]
	}`
	got, err := Parse([]byte(in))
	require.NoError(t, err)

	want := []Scenario{{
		Name:     "two-puts",
		Capacity: 2,
		Slack:    1,
		Ops: []Op{
			{Op: OpPut, Value: 7},
			{Op: OpPut, Value: 9, Expect: "ok"},
			{Op: OpPut, Value: 1, Expect: "buffer full"},
			{Op: OpGet, Want: u8(7)},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArray(t *testing.T) {
	in := `[{"name":"a","capacity":1,"ops":[]},{"name":"b","capacity":3,"ops":[{"op":"get","expect":"buffer empty"}]}]`
	got, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
	assert.Equal(t, "buffer empty", got[1].Ops[0].Expect)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", "empty input"},
		{"malformed", `{"name":`, "decode"},
		{"no name", `{"capacity":1,"ops":[]}`, "missing name"},
		{"zero capacity", `{"name":"z","capacity":0,"ops":[]}`, "capacity must be > 0"},
		{"unknown op", `{"name":"u","capacity":1,"ops":[{"op":"peek"}]}`, `unknown op "peek"`},
		{"unknown status", `{"name":"s","capacity":1,"ops":[{"op":"get","expect":"nope"}]}`, `unknown status "nope"`},
		{"oversized init", `{"name":"i","capacity":2,"ops":[{"op":"init","capacity":3}]}`, "exceeds scenario capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuiltinScenariosPass(t *testing.T) {
	for _, sc := range Builtin() {
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, sc.Validate())
			res, err := Run(sc, make([]byte, sc.BackingSize()))
			require.NoError(t, err)
			assert.Empty(t, res.Failures)
			assert.True(t, res.GuardIntact)
			assert.True(t, res.Passed())
			assert.Equal(t, len(sc.Ops), res.Steps)
			assert.Len(t, res.Digest, 64)
		})
	}
}

func TestRunFillAndDrainDrainsInOrder(t *testing.T) {
	res, err := Run(Builtin()[0], make([]byte, 5))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 3, 5, 7, 9}, res.Drained)
	assert.Equal(t, cbuf.Cursors{Head: 0, Tail: 0, Size: 0, Capacity: 5}, res.Final)
}

func TestRunReportsMismatches(t *testing.T) {
	sc := Scenario{
		Name:     "wrong",
		Capacity: 1,
		Ops: []Op{
			{Op: OpGet, Expect: "ok"},
			{Op: OpPut, Value: 3},
			{Op: OpGet, Want: u8(4)},
		},
	}
	res, err := Run(sc, make([]byte, 1))
	require.NoError(t, err)
	assert.False(t, res.Passed())

	want := []Failure{
		{Step: 0, Op: OpGet, Reason: "got status buffer empty, want ok"},
		{Step: 2, Op: OpGet, Reason: "got value 0x03, want 0x04"},
	}
	if diff := cmp.Diff(want, res.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRejectsShortRegion(t *testing.T) {
	sc := Scenario{Name: "short", Capacity: 4, Slack: 2}
	_, err := Run(sc, make([]byte, 5))
	assert.EqualError(t, err, "scenario short: region has 5 bytes, need 6")
}

func TestRunWritesGuard(t *testing.T) {
	region := make([]byte, 8)
	sc := Scenario{Name: "guard", Capacity: 5, Slack: 3, Ops: []Op{{Op: OpPut, Value: 1}}}
	res, err := Run(sc, region)
	require.NoError(t, err)
	assert.True(t, res.GuardIntact)
	assert.Equal(t, []byte{constants.GuardByte, constants.GuardByte, constants.GuardByte}, region[5:])
}

func TestDigestDependsOnlyOnDrainedBytes(t *testing.T) {
	a := Scenario{Name: "a", Capacity: 2, Ops: []Op{put(1), get(1), put(2), get(2)}}
	b := Scenario{Name: "b", Capacity: 9, Slack: 4, Ops: []Op{put(1), put(2), get(1), get(2), getEmpty()}}

	ra, err := Run(a, make([]byte, a.BackingSize()))
	require.NoError(t, err)
	rb, err := Run(b, make([]byte, b.BackingSize()))
	require.NoError(t, err)
	assert.Equal(t, ra.Digest, rb.Digest)

	c := Scenario{Name: "c", Capacity: 2, Ops: []Op{put(2), get(2), put(1), get(1)}}
	rc, err := Run(c, make([]byte, c.BackingSize()))
	require.NoError(t, err)
	assert.NotEqual(t, ra.Digest, rc.Digest)
}

func TestModelMatchesRingBuffer(t *testing.T) {
	sc := Random(42, 5000, 7, constants.DefaultFuzzSlack)
	require.NoError(t, sc.Validate())
	require.Len(t, sc.Ops, 5000)

	res, err := Run(sc, make([]byte, sc.BackingSize()))
	require.NoError(t, err)
	assert.True(t, res.Passed(), "failures: %v", res.Failures)
}

func TestRandomIsDeterministic(t *testing.T) {
	a := Random(9, 300, 4, 0)
	b := Random(9, 300, 4, 0)
	if diff := cmp.Diff(a, b, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("same seed produced different scripts:\n%s", diff)
	}
	c := Random(10, 300, 4, 0)
	assert.NotEqual(t, a.Name, c.Name)
}

func TestModel(t *testing.T) {
	m := NewModel(2)
	assert.Equal(t, cbuf.Ok, m.Put(1))
	assert.Equal(t, cbuf.Ok, m.Put(2))
	assert.Equal(t, cbuf.BufferFull, m.Put(3))
	assert.Equal(t, 2, m.Size())

	v, s := m.Get()
	assert.Equal(t, cbuf.Ok, s)
	assert.Equal(t, byte(1), v)
	v, _ = m.Get()
	assert.Equal(t, byte(2), v)
	_, s = m.Get()
	assert.Equal(t, cbuf.BufferEmpty, s)
}

func TestValidateRejectsOversizedBacking(t *testing.T) {
	sc := Scenario{Name: "huge", Capacity: 4294967295, Slack: 1}
	err := sc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	_, err = Parse([]byte(`{"name":"big","capacity":67108864,"slack":1,"ops":[]}`))
	require.Error(t, err)

	ok := Scenario{Name: "max", Capacity: constants.MaxBackingSize}
	assert.NoError(t, ok.Validate())
}

func TestRunShrinkingInitKeepsIdleBytes(t *testing.T) {
	region := make([]byte, 5)
	sc := Builtin()[7]
	require.Equal(t, "reinit-discards-contents", sc.Name)

	res, err := Run(sc, region)
	require.NoError(t, err)
	assert.True(t, res.Passed(), "failures: %v", res.Failures)
	// Bytes 3 and 4 were never written: the first fill stopped at index 1
	// and the re-initialized buffer only spans [0, 3).
	assert.Equal(t, []byte{0, 0}, region[3:])
}

func TestIdleBytesDetectsWrites(t *testing.T) {
	region := []byte{1, 2, 3, 4, 5}
	idle := snapshotIdle(region, 3, 5)
	assert.True(t, idle.intact(region))

	region[4] = 9
	assert.False(t, idle.intact(region))

	full := snapshotIdle(region, 5, 5)
	assert.True(t, full.intact(region))
}

func TestRandomNegativeOpsIsEmpty(t *testing.T) {
	sc := Random(1, -1, 3, 0)
	assert.Empty(t, sc.Ops)
	require.NoError(t, sc.Validate())
}
