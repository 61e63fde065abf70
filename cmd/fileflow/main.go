// Package main is the entry point for the fileflow CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/fileflow/cmd/fileflow/commands"
	"go.trai.ch/fileflow/internal/app"
	"go.trai.ch/fileflow/internal/core/domain"
	_ "go.trai.ch/fileflow/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	defer func() {
		_ = components.Close()
	}()

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		// Task failures were logged as they happened.
		if !errors.Is(err, domain.ErrBuildExecutionFailed) {
			components.Logger.Error(err)
		}
		return 1
	}
	return 0
}
