package loom

import (
	"fmt"
	"os"
)

// debugStats holds per-session counters. Only populated in debug mode.
type debugStats struct {
	updates  int
	renders  int
	reroutes int
}

// debugLog prints the counters to stderr.
func (e *Engine) debugLog() {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[loom] updates: %d | renders: %d | reroutes: %d\n",
		e.stats.updates, e.stats.renders, e.stats.reroutes)
}
