package stressor

import (
	"context"
	"log/slog"
)

// Reporter receives every per-attempt outcome. The stressor's failure
// surface is deliberately log-only (a failed push or verification does not
// change the exit code); routing outcomes through this interface keeps that
// behavior in one place so a stricter policy can be layered on later.
type Reporter interface {
	AttemptStarted(ctx context.Context, attempt int, serial, tag string)
	PushDone(ctx context.Context, attempt int, ok bool)
	Verdict(ctx context.Context, attempt int, verdict VerdictInfo)
	AttemptDone(ctx context.Context, attempt int, verdicts int)
}

// VerdictInfo is one byte-for-byte comparison result for a fetched URI.
type VerdictInfo struct {
	URI       string
	Pass      bool
	LocalSum  string
	RemoteSum string
}

// Ensure LogReporter implements Reporter interface.
var _ Reporter = (*LogReporter)(nil)

// LogReporter reports outcomes through slog, mirroring the historical
// log-only behavior.
type LogReporter struct {
	log *slog.Logger
}

func NewLogReporter(log *slog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) AttemptStarted(ctx context.Context, attempt int, serial, tag string) {
	r.log.InfoContext(ctx, "starting attempt",
		"attempt", attempt,
		"serial", serial,
		"tag", tag,
	)
}

func (r *LogReporter) PushDone(ctx context.Context, attempt int, ok bool) {
	if ok {
		r.log.InfoContext(ctx, "push succeeded", "attempt", attempt)
		return
	}
	r.log.WarnContext(ctx, "push failed", "attempt", attempt)
}

func (r *LogReporter) Verdict(ctx context.Context, attempt int, verdict VerdictInfo) {
	if verdict.Pass {
		r.log.InfoContext(ctx, "PASS",
			"attempt", attempt,
			"uri", verdict.URI,
			"sum", verdict.LocalSum,
		)
		return
	}
	r.log.InfoContext(ctx, "FAIL",
		"attempt", attempt,
		"uri", verdict.URI,
		"localSum", verdict.LocalSum,
		"remoteSum", verdict.RemoteSum,
	)
}

func (r *LogReporter) AttemptDone(ctx context.Context, attempt int, verdicts int) {
	r.log.InfoContext(ctx, "attempt finished",
		"attempt", attempt,
		"verdicts", verdicts,
	)
}
