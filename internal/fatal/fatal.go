// Package fatal implements the process-fatal escalation called for by
// the error taxonomy: any error that would silently desynchronize
// replicated state (commit-time engine failures, store write
// failures, replay misalignment) is escalated here rather than
// returned up the call stack.
package fatal

import (
	"os"

	"github.com/autonity/emerald/internal/log"
)

// exitFunc is swapped out in tests so a fatal path can be asserted
// without killing the test binary.
var exitFunc = os.Exit

// Fatal logs msg at Crit with ctx key-value pairs, then terminates the
// process — the same effect as go-ethereum's log.Crit, made explicit
// here since internal/log's Crit logs only, deliberately leaving
// process termination to this single call site.
func Fatal(msg string, ctx ...interface{}) {
	log.Root().Crit(msg, ctx...)
	exitFunc(1)
}
