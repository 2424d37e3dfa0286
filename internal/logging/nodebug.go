//go:build !debug
// +build !debug

package logging

import "log/slog"

func defaultLogger() *slog.Logger { return slog.New(nopHandler{}) }
