package utils

import "os"

///////////////////////////////////////////////////////////////////////////////
// Console Output — Unformatted, Allocation-Free Writers
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg to stderr as-is. No newline is appended.
// Used by the debug package for cold-path diagnostics.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}
