// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitCancelled is returned when SIGINT/SIGTERM interrupts a run.
const ExitCancelled = 130

// Main runs a tool under a signal-aware context and exits with its code.
// With no arguments the tool is asked for its help text.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, Args(os.Args[1:]), os.Stdout, os.Stderr)
	stop()
	os.Exit(Normalize(ctx, code))
}

// Args substitutes -h for an empty argument list.
func Args(argv []string) []string {
	if len(argv) == 0 {
		return []string{"-h"}
	}
	return argv
}

// Normalize maps a clean exit after cancellation to ExitCancelled.
func Normalize(ctx context.Context, code int) int {
	if ctx.Err() != nil && code == 0 {
		return ExitCancelled
	}
	return code
}
