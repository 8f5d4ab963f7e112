package stressor_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bsg-ground/datastore-stressor/internal/stressor"
)

func TestLogReporter(t *testing.T) {
	ctx := context.Background()

	newReporter := func() (*stressor.LogReporter, *bytes.Buffer) {
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))
		return stressor.NewLogReporter(log), &buf
	}

	t.Run("PassVerdict", func(t *testing.T) {
		reporter, buf := newReporter()

		reporter.Verdict(ctx, 1, stressor.VerdictInfo{
			URI:       "http://x/blob1",
			Pass:      true,
			LocalSum:  "abc",
			RemoteSum: "abc",
		})

		assert.Contains(t, buf.String(), `"msg":"PASS"`, "pass must be logged as PASS")
	})

	t.Run("FailVerdict", func(t *testing.T) {
		reporter, buf := newReporter()

		reporter.Verdict(ctx, 1, stressor.VerdictInfo{
			URI:       "http://x/blob1",
			LocalSum:  "abc",
			RemoteSum: "def",
		})

		assert.Contains(t, buf.String(), `"msg":"FAIL"`, "mismatch must be logged as FAIL")
	})

	t.Run("PushOutcome", func(t *testing.T) {
		reporter, buf := newReporter()

		reporter.PushDone(ctx, 1, false)

		assert.Contains(t, buf.String(), "push failed", "failed push must be logged")
	})
}
