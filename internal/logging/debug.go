//go:build debug
// +build debug

package logging

import (
	"log/slog"
	"os"
)

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
