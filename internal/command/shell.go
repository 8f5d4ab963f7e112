package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ensure ShellExecutor implements Executor interface.
var _ Executor = (*ShellExecutor)(nil)

// Executes the command via fork / subprocess
type ShellExecutor struct{}

func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{}
}

func (*ShellExecutor) Execute(ctx context.Context, command *Command) (*Result, error) {
	ctx, span := tracer.Start(ctx, "ShellExecutor.Execute", trace.WithAttributes(
		attribute.String("program", command.Program),
		attribute.StringSlice("args", command.Args),
	))
	defer span.End()

	var stdout, stderr bytes.Buffer

	//nolint:gosec // G204: not controllable by sanitizing here; callers should ensure sanitization
	cmd := exec.CommandContext(ctx, command.Program, command.Args...)
	cmd.Stdin = command.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to execute command")
			return nil, err
		}
	}

	span.AddEvent("executed", trace.WithAttributes(
		attribute.Int("exitCode", cmd.ProcessState.ExitCode()),
	))

	executed := make([]string, 0, len(command.Args)+1)
	executed = append(executed, command.Program)
	executed = append(executed, command.Args...)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "successfully executed command")
	return &Result{
		Cmd:      executed,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}
