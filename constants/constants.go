// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global tunables for the bytering tool chain
//
// Purpose:
//   - Defaults for backing regions, scenario guards and the run history store.
//   - CLI flags override these at runtime; nothing else reads the environment.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Buffer Defaults ─────────────────────────────

const (
	// DefaultCapacity is the capacity used by fuzz runs when none is given.
	// Matches the capacity the conformance scenarios are written against.
	DefaultCapacity = 5

	// DefaultBacking selects where backing storage lives: "heap" or "mmap".
	DefaultBacking = "heap"
)

// ──────────────────────────── Scenario Guards ──────────────────────────────

const (
	// GuardByte fills backing bytes past capacity. Any other value there after
	// a run means the buffer wrote out of bounds.
	GuardByte = 0xA5

	// EmptySentinel seeds the output slot before every get so a failed get
	// can be proven not to have written it.
	EmptySentinel = 0x5A

	// DefaultFuzzOps is the number of random ops in a generated scenario.
	DefaultFuzzOps = 10_000

	// DefaultFuzzSlack is the guard region appended to fuzz backing storage.
	DefaultFuzzSlack = 8

	// MaxBackingSize caps capacity+slack of one scenario; larger scripts are
	// rejected before any region is allocated.
	MaxBackingSize = 64 << 20 // 64 MiB
)

// ───────────────────────────── History Store ───────────────────────────────

const (
	// DefaultDBPath is the SQLite file that records scenario runs.
	DefaultDBPath = "bytering_runs.db"

	// DefaultHistoryLimit caps rows printed by the history command.
	DefaultHistoryLimit = 20
)
