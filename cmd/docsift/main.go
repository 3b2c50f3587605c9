package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Set up context with signal handling so a Ctrl+C cancels the in-flight
	// extraction call.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := 0
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code = 1
	}
	if exitCode != 0 {
		code = exitCode
	}
	os.Exit(code)
}
