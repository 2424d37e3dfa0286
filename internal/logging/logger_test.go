package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	old := Logger()
	defer SetLogger(old)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Warn("both sides omitted", "surface", "tfsf0")
	if !strings.Contains(buf.String(), "surface=tfsf0") {
		t.Fatalf("missing attribute in %q", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nil logger should discard everything")
	}
}
