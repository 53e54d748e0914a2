// ════════════════════════════════════════════════════════════════════════════════════════════════
// bytering - Conformance Tool Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Command Line Interface
//
// Description:
//   Runs ring buffer conformance scenarios over heap or mmap backing regions, optionally
//   recording each run in the SQLite history store.
//
// Commands:
//   - check:   builtin suite or scenario files
//   - fuzz:    one model-checked random script
//   - history: recent recorded runs
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"

	"bytering/debug"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		debug.DropError("FATAL", err)
		os.Exit(1)
	}
}
