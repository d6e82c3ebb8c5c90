package main

import (
	"context"
	"log/slog"

	"autolot-backend/lib/configutil"
	"autolot-backend/lib/restyutil"
	"autolot-backend/lib/scrapers/drom"
	"autolot-backend/lib/telemetry"
	"autolot-backend/lib/util/serviceutil"
	"autolot-backend/services/ingest"
	ingestdb "autolot-backend/services/ingest/db"

	"github.com/robfig/cron/v3"
)

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	telemetry.InitSlog(config.Debug)

	if len(config.Sources) == 0 {
		slog.Warn("no sources configured, the daemon will idle")
	}
	if config.Schedule == "" {
		config.Schedule = "@every 6h"
	}
	if config.MediaDir == "" {
		config.MediaDir = "media"
	}

	db, err := config.Database.OpenDB(ingestdb.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	t, err := telemetry.SetupFromEnv(ctx, "ingestd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	opts := drom.ClientOptions{}
	if config.Debug {
		opts.DebugOutput = restyutil.NewFilesystemOutput("http_dump")
	}
	source, err := drom.NewClient(opts)
	if err != nil {
		serviceutil.Fatal("failed to create scraper client", err)
	}

	service := ingest.NewService(
		ingest.NewStore(db),
		source,
		ingest.ServiceOptions{
			MediaDir:          config.MediaDir,
			AllowMissingImage: config.AllowMissingImage,
		},
	)

	cycle := func() {
		for _, pageURL := range config.Sources {
			report, err := service.Ingest(ctx, pageURL)
			if err != nil {
				slog.Error("ingest cycle failed", "url", pageURL, "err", err)
				continue
			}
			slog.Info(
				"ingest cycle done",
				"run_id", report.RunID,
				"url", pageURL,
				"created", report.Created,
				"duplicates", report.Duplicates,
				"failures", len(report.Failures),
			)
		}
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(config.Schedule, cycle)
	if err != nil {
		serviceutil.Fatal("failed to schedule ingestion", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// populate immediately instead of waiting for the first tick
	go cycle()

	<-ctx.Done()
}
