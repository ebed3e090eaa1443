package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/artemis-extras/internal/config"
	"github.com/aleister1102/artemis-extras/internal/logger"
	"github.com/aleister1102/artemis-extras/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	fmt.Fprintln(os.Stderr, "artemis-extras starting...")

	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("[FATAL] Main: %v", err)
	}

	// Config loading logs before the configured logger exists.
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	if flags.Language != "" {
		gCfg.ReporterConfig.Language = flags.Language
	}

	runID := uuid.NewString()
	zLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Str("mode", flags.Mode).Msg("Logger initialized successfully.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := metrics.NewRecorder(gCfg.MetricsConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not initialize metrics")
	}

	app := &application{cfg: gCfg, flags: flags, recorder: recorder, logger: zLogger}

	var runErr error
	switch flags.Mode {
	case modeDiscover:
		runErr = app.runDiscover(ctx)
	case modeExpand:
		runErr = app.runExpand(ctx)
	case modeReport:
		runErr = app.runReport(ctx)
	}

	if err := recorder.Flush(); err != nil {
		zLogger.Error().Err(err).Msg("Failed to write metrics")
	}

	if runErr != nil {
		if ctx.Err() != nil {
			zLogger.Warn().Err(runErr).Msg("Interrupted")
		} else {
			zLogger.Error().Err(runErr).Msg("Run failed")
		}
		stop()
		os.Exit(1)
	}
	zLogger.Info().Msg("artemis-extras finished.")
}
