package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"curateur/internal/orchestrator"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCodeFor(err))
}

// exitCodeFor maps a run's terminal error to the process exit code an
// emulator frontend or wrapper script can branch on: a clean run or one
// that merely logged per-platform failures is 0, a fatal provider error
// is 1, and an operator cancellation is 2.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, orchestrator.ErrOperatorCancelled) || errors.Is(err, context.Canceled) {
		return 2
	}
	return 1
}
