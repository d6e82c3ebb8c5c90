package cmd

import (
	"fmt"
	"os"

	"autolot-backend/lib/configutil"
	configlibsql "autolot-backend/lib/configutil/libsql"
	"autolot-backend/lib/restyutil"
	"autolot-backend/lib/scrapers/drom"
	"autolot-backend/lib/telemetry"
	"autolot-backend/services/ingest"
	ingestdb "autolot-backend/services/ingest/db"

	"github.com/spf13/cobra"
)

type Config struct {
	Database configlibsql.Struct `json:"database"`
	// directory listing images are stored in
	MediaDir string `json:"media_dir"`
	// persist listings even when their image is missing or unfetchable
	AllowMissingImage bool `json:"allow_missing_image"`
	// dump raw scraper traffic to http_dump/ under debug logging
	Debug bool `json:"debug"`
	// listing page urls the ingestd daemon works through
	Sources []string `json:"sources"`
}

var rootCmd = &cobra.Command{
	Use:   "autolot-cli",
	Short: "autolot-cli operates the vehicle listing ingestion pipeline.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

func setupService() (ingest.Service, Config) {
	config, err := configutil.ReadRecursively[Config]("config.json5")
	if err != nil {
		fatal("failed to read config", err)
	}
	telemetry.InitSlog(config.Debug)

	db, err := config.Database.OpenDB(ingestdb.Schema)
	if err != nil {
		fatal("failed to open database", err)
	}

	opts := drom.ClientOptions{}
	if config.Debug {
		opts.DebugOutput = restyutil.NewFilesystemOutput("http_dump")
	}
	source, err := drom.NewClient(opts)
	if err != nil {
		fatal("failed to create scraper client", err)
	}

	mediaDir := config.MediaDir
	if mediaDir == "" {
		mediaDir = "media"
	}
	service := ingest.NewService(
		ingest.NewStore(db),
		source,
		ingest.ServiceOptions{
			MediaDir:          mediaDir,
			AllowMissingImage: config.AllowMissingImage,
		},
	)
	return service, config
}
