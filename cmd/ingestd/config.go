package main

import (
	configlibsql "autolot-backend/lib/configutil/libsql"
)

type Config struct {
	Database configlibsql.Struct `json:"database"`
	// directory listing images are stored in
	MediaDir string `json:"media_dir"`
	// persist listings even when their image is missing or unfetchable
	AllowMissingImage bool `json:"allow_missing_image"`
	// dump raw scraper traffic to http_dump/ under debug logging
	Debug bool `json:"debug"`
	// listing page urls every cycle works through, in order
	Sources []string `json:"sources"`
	// cron spec of the ingestion cycle, e.g. "@every 6h"
	Schedule string `json:"schedule"`
}
