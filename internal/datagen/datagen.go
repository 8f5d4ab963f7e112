// Package datagen produces the payload the stressor pushes: the output of a
// local diagnostic command, gzipped to a file on disk.
package datagen

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsg-ground/datastore-stressor/internal/command"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/internal/datagen",
)

// Generator captures a diagnostic command's stdout and writes it compressed
// to a file. The default command is dmesg; tests inject their own executor
// and command.
type Generator struct {
	executor command.Executor
	program  string
	args     []string
}

func NewGenerator(executor command.Executor) *Generator {
	return NewGeneratorCommand(executor, "dmesg")
}

func NewGeneratorCommand(executor command.Executor, program string, args ...string) *Generator {
	return &Generator{
		executor: executor,
		program:  program,
		args:     args,
	}
}

// CreateDataFile runs the diagnostic command and gzips its stdout to path,
// overwriting any existing file. A non-zero exit or any I/O failure is an
// error; the caller aborts the whole run on it.
func (g *Generator) CreateDataFile(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "Generator.CreateDataFile", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("program", g.program),
	))
	defer span.End()

	result, err := g.executor.Execute(ctx, command.New(g.program, g.args...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to run diagnostic command")
		return err
	}

	if result.ExitCode != 0 {
		err = fmt.Errorf(
			"diagnostic command exited with %d: %s",
			result.ExitCode,
			result.Stderr,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "diagnostic command failed")
		return err
	}

	if err := writeCompressed(path, result.Stdout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write generated data")
		return err
	}

	span.AddEvent("generated", trace.WithAttributes(
		attribute.Int("uncompressedBytes", len(result.Stdout)),
	))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "wrote data file")
	return nil
}
