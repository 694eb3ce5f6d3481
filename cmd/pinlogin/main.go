// File: cmd/pinlogin/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/pinlogin/cmd"
	"github.com/xkilldash9x/pinlogin/internal/observability"
)

const panicLogFile = "pinlogin-panic.log"

// Function variables replaced in tests.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
	execute     = cmd.Execute
)

func main() {
	defer handlePanic()

	// SIGINT and SIGTERM cancel the context, which closes the browser of a running attempt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx)
	stop()
	osExit(code)
}

// run executes the command tree and maps the result to an exit code.
func run(ctx context.Context) int {
	return cmd.ExitCode(execute(ctx))
}

// handlePanic records an unexpected panic to panicLogFile and exits non-zero.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}
	observability.Sync()

	panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	if err := osWriteFile(panicLogFile, []byte(panicMessage), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
		fmt.Fprintf(os.Stderr, "Panic details:\n%s\n", panicMessage)
		osExit(cmd.ExitFailure)
		return
	}

	fmt.Fprintf(os.Stderr, "pinlogin crashed unexpectedly. Details logged to %s\n", panicLogFile)
	osExit(cmd.ExitFailure)
}
