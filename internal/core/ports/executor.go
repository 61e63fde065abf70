// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/fileflow/internal/core/domain"
)

// Executor defines the interface for executing command tasks.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the task's command with env appended to the process environment.
	//
	// The env parameter contains environment variables in "KEY=VALUE" format and carries
	// the task's bound input and output artifact paths.
	//
	// It returns an error if the command cannot be started or exits unsuccessfully.
	Execute(ctx context.Context, task *domain.CommandTask, env []string, stdout, stderr io.Writer) error
}
