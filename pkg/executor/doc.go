// Package executor runs the external tools paldeploy delegates to (git,
// patch, make). Every call blocks until the child exits; cancellation is
// only through the context, which the CLI wires to operator interrupt.
package executor
