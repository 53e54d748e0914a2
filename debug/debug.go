// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — cold-path diagnostic logging for the bytering CLI
//
// Purpose:
//   - Reports setup failures (backing regions, store, scenario files) and
//     per-scenario failure reasons.
//
// Notes:
//   - Avoids fmt.Sprintf; messages are concatenated and written unformatted.
//   - The cbuf package never logs. Only the command layer calls into here.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "bytering/utils"

// DropError logs "<prefix>: <err>" to stderr, or just "<prefix>" when err is nil.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs "<prefix>: <message>" to stderr.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
