package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/feathermark/strikereport/internal/config"
	"github.com/feathermark/strikereport/internal/observability"
	"github.com/feathermark/strikereport/internal/pipeline"
	"github.com/feathermark/strikereport/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	strikes := []pipeline.StrikeSource{
		source.Regulatory{Path: cfg.RegulatoryCSV},
		source.OpsCenter{
			Path:                   cfg.OpsCenterXLSX,
			IncludeAmbiguousStatus: cfg.IncludeAmbiguousStatus,
			OnExcluded:             metrics.RecordsExcluded.Inc,
		},
	}

	p := pipeline.New(
		strikes,
		source.Operations{Path: cfg.OperationsCSV},
		source.Guilds{Path: cfg.GuildCSV},
		cfg, logger, metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}
