// Package main runs the build-time site tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sitectlcmd "github.com/futureworld/futureworld.site/internal/cmd/sitectl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sitectlcmd.New().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
