package witcli

import (
	"log/slog"
	"os"

	"github.com/go-hostgen/hostgen/internal/logging"
)

// Logger returns a [slog.Logger] that writes to stderr at the level implied
// by verbose/debug.
func Logger(verbose, debug bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return logging.Logger(os.Stderr, level)
}
