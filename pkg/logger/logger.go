// Package logger provides the process-wide structured logger and the gin
// request-logging middleware. No business logic should depend on logging
// implementation details.
package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger. Local and dev environments log at debug
// level, everything else at info.
func New(appEnv string) *slog.Logger {
	level := slog.LevelInfo
	if appEnv == "local" || appEnv == "dev" {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
