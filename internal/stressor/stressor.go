// Package stressor drives the push/pull/verify loop against the datastore.
package stressor

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsg-ground/datastore-stressor/internal/config"
	"github.com/bsg-ground/datastore-stressor/internal/datagen"
	"github.com/bsg-ground/datastore-stressor/internal/datastore"
	"github.com/bsg-ground/datastore-stressor/internal/fetch"
	"github.com/bsg-ground/datastore-stressor/internal/hash"
	"github.com/bsg-ground/datastore-stressor/internal/identifier"
	"github.com/bsg-ground/datastore-stressor/internal/logger"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/internal/stressor",
)

// Runner owns one stress run: it generates the payload once, then performs
// sequential push/pull/verify attempts. No state carries across attempts
// except the payload file and the fixed serial/type from config.
type Runner struct {
	cfg       *config.Config
	generator *datagen.Generator
	client    *datastore.Client
	fetcher   fetch.Fetcher
	reporter  Reporter
	sleep     func(time.Duration)
}

func NewRunner(
	cfg *config.Config,
	generator *datagen.Generator,
	client *datastore.Client,
	fetcher fetch.Fetcher,
	reporter Reporter,
) *Runner {
	return &Runner{
		cfg:       cfg,
		generator: generator,
		client:    client,
		fetcher:   fetcher,
		reporter:  reporter,
		sleep:     time.Sleep,
	}
}

// Run executes tries attempts. Only payload generation can fail the run;
// everything inside an attempt is reported and swallowed so one bad attempt
// never stops the loop.
func (r *Runner) Run(ctx context.Context, tries int) error {
	ctx, span := tracer.Start(ctx, "Runner.Run", trace.WithAttributes(
		attribute.Int("tries", tries),
	))
	defer span.End()

	if err := r.generator.CreateDataFile(ctx, r.cfg.DataFile); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create data file")
		logger.Logger.ErrorContext(ctx, "unable to create data file, exiting", "error", err)
		return err
	}

	for attempt := 1; attempt <= tries; attempt++ {
		r.attempt(ctx, attempt)

		if attempt < tries {
			r.sleep(r.cfg.WaitTime)
		}
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "run finished")
	return nil
}

func (r *Runner) attempt(ctx context.Context, attempt int) {
	ctx, span := tracer.Start(ctx, "Runner.attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
	))
	defer span.End()

	tag, err := identifier.New()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mint tag")
		logger.Logger.ErrorContext(ctx, "failed to mint tag", "error", err)
		r.reporter.AttemptDone(ctx, attempt, 0)
		return
	}
	span.SetAttributes(attribute.String("tag", tag))

	r.reporter.AttemptStarted(ctx, attempt, r.cfg.Serial, tag)

	// The push outcome is reported but does not gate the attempt; the pull
	// below tells us whether the datastore actually took the item.
	ok, err := r.client.Push(ctx, datastore.PushRequest{
		DataType: r.cfg.DataType,
		Serial:   r.cfg.Serial,
		FilePath: r.cfg.DataFile,
		Tag:      tag,
	})
	if err != nil {
		logger.Logger.ErrorContext(ctx, "push misconfigured", "error", err)
	}
	r.reporter.PushDone(ctx, attempt, ok)

	resp := r.client.Pull(ctx, r.cfg.Serial, r.cfg.DataType, tag)
	uris := datastore.ParseResponse(ctx, resp)

	payload, err := os.ReadFile(r.cfg.DataFile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read payload back")
		logger.Logger.ErrorContext(ctx, "failed to read data file", "error", err)
		r.reporter.AttemptDone(ctx, attempt, 0)
		return
	}
	localSum := hash.Buffer(payload)

	verdicts := 0
	for _, uri := range uris {
		r.reporter.Verdict(ctx, attempt, r.verify(ctx, uri, payload, localSum))
		verdicts++
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "attempt finished")
	r.reporter.AttemptDone(ctx, attempt, verdicts)
}

// verify fetches one URI and compares it byte-for-byte against the local
// payload. Any fetch or read failure counts as FAIL.
func (r *Runner) verify(
	ctx context.Context,
	uri string,
	payload []byte,
	localSum string,
) VerdictInfo {
	ctx, span := tracer.Start(ctx, "Runner.verify", trace.WithAttributes(
		attribute.String("uri", uri),
	))
	defer span.End()

	verdict := VerdictInfo{URI: uri, LocalSum: localSum}

	body, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch uri")
		logger.Logger.WarnContext(ctx, "failed to fetch data file", "uri", uri, "error", err)
		return verdict
	}
	defer body.Close()

	remote, err := io.ReadAll(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read fetched body")
		logger.Logger.WarnContext(ctx, "failed to read data file", "uri", uri, "error", err)
		return verdict
	}

	verdict.RemoteSum = hash.Buffer(remote)
	verdict.Pass = bytes.Equal(remote, payload)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "verified uri")
	return verdict
}
