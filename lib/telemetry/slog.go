package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide text logger. debug enables the
// per-request http logging in restyutil.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
