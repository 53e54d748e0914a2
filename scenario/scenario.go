// ════════════════════════════════════════════════════════════════════════════════════════════════
// Scripted Conformance Scenarios
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Ring Buffer Conformance Runner
//
// Description:
//   Data-driven op scripts (put / get / init) executed against a cbuf.RingBuffer over any
//   caller-supplied region. Each step may assert a status and, for gets, a value. The runner
//   also proves the two properties a plain unit test cannot see from the outside: a failed get
//   never writes the output slot, and bytes past capacity are never touched.
//
// Format:
//   JSON, decoded with sonnet. A file holds one scenario object or an array of them.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package scenario

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"

	"bytering/cbuf"
	"bytering/constants"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SCRIPT TYPES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Op kinds.
const (
	OpPut  = "put"
	OpGet  = "get"
	OpInit = "init"
)

// Op is one scripted step.
type Op struct {
	Op       string `json:"op"`
	Value    uint8  `json:"value,omitempty"`    // put
	Capacity uint32 `json:"capacity,omitempty"` // init
	Expect   string `json:"expect,omitempty"`   // status name; empty skips the check
	Want     *uint8 `json:"want,omitempty"`     // get: expected value on success
}

// Scenario is a named script run against a buffer of Capacity bytes with
// Slack guard bytes appended to its backing storage.
type Scenario struct {
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
	Slack    uint32 `json:"slack,omitempty"`
	Ops      []Op   `json:"ops"`
}

// Failure pins a mismatch to the step that produced it.
type Failure struct {
	Step   int    `json:"step"`
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// Result is the outcome of Run.
type Result struct {
	Name        string       `json:"name"`
	Capacity    uint32       `json:"capacity"`
	Steps       int          `json:"steps"`
	Failures    []Failure    `json:"failures,omitempty"`
	Drained     []byte       `json:"-"`
	Digest      string       `json:"digest"`
	Final       cbuf.Cursors `json:"final"`
	GuardIntact bool         `json:"guard_intact"`
}

// Passed reports whether every step matched and the guard region survived.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0 && r.GuardIntact
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// DECODING & VALIDATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Parse decodes one scenario object or an array of them and validates each.
func Parse(data []byte) ([]Scenario, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("scenario: empty input")
	}

	var out []Scenario
	if data[0] == '[' {
		if err := sonnet.Unmarshal(data, &out); err != nil {
			return nil, errors.Wrap(err, "scenario: decode")
		}
	} else {
		var sc Scenario
		if err := sonnet.Unmarshal(data, &sc); err != nil {
			return nil, errors.Wrap(err, "scenario: decode")
		}
		out = append(out, sc)
	}

	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, errors.Wrapf(err, "scenario %d", i)
		}
	}
	return out, nil
}

// Load reads all of r and parses it.
func Load(r io.Reader) ([]Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "scenario: read")
	}
	return Parse(data)
}

// Validate checks the script is runnable.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return errors.New("missing name")
	}
	if sc.Capacity == 0 {
		return errors.Errorf("%s: capacity must be > 0", sc.Name)
	}
	if size := uint64(sc.Capacity) + uint64(sc.Slack); size > constants.MaxBackingSize {
		return errors.Errorf("%s: capacity+slack %d exceeds limit %d", sc.Name, size, constants.MaxBackingSize)
	}
	for i, op := range sc.Ops {
		switch op.Op {
		case OpPut, OpGet:
		case OpInit:
			if op.Capacity > sc.Capacity {
				return errors.Errorf("%s: step %d: init capacity %d exceeds scenario capacity %d",
					sc.Name, i, op.Capacity, sc.Capacity)
			}
		default:
			return errors.Errorf("%s: step %d: unknown op %q", sc.Name, i, op.Op)
		}
		if op.Expect != "" {
			if _, ok := cbuf.ParseStatus(op.Expect); !ok {
				return errors.Errorf("%s: step %d: unknown status %q", sc.Name, i, op.Expect)
			}
		}
	}
	return nil
}

// BackingSize is the minimum region length Run needs.
func (sc *Scenario) BackingSize() int {
	return int(sc.Capacity) + int(sc.Slack)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// EXECUTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Run executes sc against a buffer over region. Mismatches are collected in
// the Result; the error return is reserved for scripts that cannot run.
func Run(sc Scenario, region []byte) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, err
	}
	if len(region) < sc.BackingSize() {
		return Result{}, errors.Errorf("scenario %s: region has %d bytes, need %d",
			sc.Name, len(region), sc.BackingSize())
	}

	guard := region[sc.Capacity:sc.BackingSize()]
	for i := range guard {
		guard[i] = constants.GuardByte
	}

	res := Result{Name: sc.Name, Capacity: sc.Capacity}
	fail := func(step int, op, reason string) {
		res.Failures = append(res.Failures, Failure{Step: step, Op: op, Reason: reason})
	}

	// Cleared by a shrinking re-init that later sees its idle bytes change.
	res.GuardIntact = true
	var idle idleBytes

	var rb cbuf.RingBuffer
	if s := rb.Init(region, sc.Capacity); s != cbuf.Ok {
		return Result{}, errors.Errorf("scenario %s: init: %s", sc.Name, s)
	}

	for i, op := range sc.Ops {
		var got cbuf.Status
		switch op.Op {
		case OpPut:
			got = rb.Put(op.Value)
		case OpGet:
			out := byte(constants.EmptySentinel)
			got = rb.Get(&out)
			if got == cbuf.Ok {
				res.Drained = append(res.Drained, out)
				if op.Want != nil && out != *op.Want {
					fail(i, op.Op, "got value "+hexByte(out)+", want "+hexByte(*op.Want))
				}
			} else if out != constants.EmptySentinel {
				fail(i, op.Op, "failed get overwrote output slot with "+hexByte(out))
			}
		case OpInit:
			if !idle.intact(region) {
				res.GuardIntact = false
			}
			got = rb.Init(region, op.Capacity)
			if got == cbuf.Ok {
				idle = snapshotIdle(region, op.Capacity, sc.Capacity)
			}
		}
		res.Steps++

		if op.Expect != "" {
			want, _ := cbuf.ParseStatus(op.Expect)
			if got != want {
				fail(i, op.Op, "got status "+got.String()+", want "+want.String())
			}
		}
	}

	res.Final = rb.Cursors()
	if !idle.intact(region) {
		res.GuardIntact = false
	}
	for _, b := range guard {
		if b != constants.GuardByte {
			res.GuardIntact = false
			break
		}
	}
	sum := sha3.Sum256(res.Drained)
	res.Digest = hex.EncodeToString(sum[:])
	return res, nil
}

// idleBytes records region[off:end] after a re-init shrank the buffer below
// the scenario capacity. Those bytes are outside the live buffer and must
// not change until the next init or the end of the run.
type idleBytes struct {
	off  int
	want []byte
}

func snapshotIdle(region []byte, live, full uint32) idleBytes {
	if live >= full {
		return idleBytes{}
	}
	return idleBytes{off: int(live), want: append([]byte(nil), region[live:full]...)}
}

func (ib idleBytes) intact(region []byte) bool {
	return bytes.Equal(region[ib.off:ib.off+len(ib.want)], ib.want)
}

func hexByte(b byte) string {
	return "0x" + hex.EncodeToString([]byte{b})
}
