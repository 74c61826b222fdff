package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitriyb/canoerun/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code.
// Extracted from main() for testability.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx, args, stdout, stderr)
}
