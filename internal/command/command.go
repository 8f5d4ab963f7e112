package command

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/internal/command",
)

type Result struct {
	Cmd      []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

type Command struct {
	Stdin   io.Reader
	Program string
	Args    []string
}

func New(program string, args ...string) *Command {
	return &Command{
		Program: program,
		Args:    args,
	}
}

type Executor interface {
	Execute(ctx context.Context, cmd *Command) (*Result, error)
}
