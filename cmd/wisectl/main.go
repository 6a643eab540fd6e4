// Command wisectl migrates, seeds and administers a Wise Advice database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wiseadvice/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
