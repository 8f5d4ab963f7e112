package cmds

import (
	"context"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/bsg-ground/datastore-stressor/internal/command"
	"github.com/bsg-ground/datastore-stressor/internal/config"
	"github.com/bsg-ground/datastore-stressor/internal/datagen"
	"github.com/bsg-ground/datastore-stressor/internal/datastore"
	"github.com/bsg-ground/datastore-stressor/internal/fetch"
	"github.com/bsg-ground/datastore-stressor/internal/logger"
	"github.com/bsg-ground/datastore-stressor/internal/stressor"
)

var tracer = otel.Tracer(
	"github.com/bsg-ground/datastore-stressor/cmd/stressor/cmds",
)

var tries int

var rootCmd = &cobra.Command{
	Use:   "stressor",
	Short: "Stress the datastore API with push/pull/verify cycles",
	Long: `
Generates a gzipped diagnostic payload once, then repeatedly pushes it to the
datastore, pulls it back by tag, and verifies the downloaded bytes match.

- Exits non-zero only when payload generation fails.
- Per-attempt outcomes (push failures, PASS/FAIL verdicts) are log-only.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "rootCmd")
		defer span.End()

		conf, err := config.GetConfig()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load config")
			return err
		}

		logger.Logger.InfoContext(ctx,
			"starting stress run",
			"tries", tries,
			"serial", conf.Serial,
			"data-type", conf.DataType,
			"push-url", conf.PushURL,
			"pull-url", conf.PullURL,
			"data-file", conf.DataFile,
		)

		// Single-shot requests on purpose: the attempt loop is the only
		// retry mechanism this tool has.
		httpClient := retryablehttp.NewClient()
		httpClient.RetryMax = 0
		httpClient.HTTPClient.Timeout = conf.HTTPTimeout
		std := httpClient.StandardClient()

		runner := stressor.NewRunner(
			conf,
			datagen.NewGenerator(command.NewShellExecutor()),
			datastore.NewClient(std, conf.PushURL, conf.PullURL),
			fetch.NewHTTPFetcher(std),
			stressor.NewLogReporter(logger.Logger.WithGroup("attempt")),
		)

		if err := runner.Run(ctx, tries); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "run failed")
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "run finished")
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVarP(&tries, "tries", "t", 1, "The number of tries to run")
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
