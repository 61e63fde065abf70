package workflow

import (
	"context"
	"io"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/fileflow/internal/core/ports"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

type nopTelemetry struct{}

func (nopTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, nopVertex{}
}

func (nopTelemetry) Close() error { return nil }

type nopVertex struct{}

func (nopVertex) Stdout() io.Writer           { return io.Discard }
func (nopVertex) Stderr() io.Writer           { return io.Discard }
func (nopVertex) Log(domain.LogLevel, string) {}
func (nopVertex) Complete(error)              {}
func (nopVertex) Cached()                     {}
