package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsg-ground/datastore-stressor/cmd/stressor/cmds"
	"github.com/bsg-ground/datastore-stressor/internal/config"
	"github.com/bsg-ground/datastore-stressor/internal/logger"
	otelstressor "github.com/bsg-ground/datastore-stressor/internal/otel"
)

var tracer = otel.Tracer("github.com/bsg-ground/datastore-stressor/stressor")

func runApp(ctx context.Context) int {
	conf, err := config.GetConfig()
	if err != nil {
		logger.Logger.Error("error calling GetConfig", "error", err)
		return 1
	}

	logger.LogLevel.Set(slog.Level(conf.Logging.Level))

	shutdown, err := otelstressor.SetupOTelSDK(ctx, conf.Logging.UseOTLP)
	if err != nil {
		logger.Logger.Warn("failed to setup otel sdk", "error", err)
	}
	defer func() {
		fail := shutdown(ctx)
		if fail != nil {
			logger.Logger.Warn("no clean shutdown for otel", "error", fail)
		}
	}()

	ctx, span := tracer.Start(ctx, "Stressor", trace.WithNewRoot())
	defer span.End()

	err = cmds.Execute(ctx)
	if err != nil {
		logger.Logger.Error("error executing subcommands", "error", err)
		return 1
	}

	return 0
}

func main() {
	logger.InitSlog()

	ctx := context.Background()

	os.Exit(runApp(ctx))
}
