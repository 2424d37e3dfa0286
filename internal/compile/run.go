package compile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lukaszgryglicki/yeegrid/internal/description"
	"github.com/lukaszgryglicki/yeegrid/internal/logging"
)

// Run loads the description at cfgPath, compiles it and writes the summary
// to w.
func Run(cfgPath string, w io.Writer) error {
	if Debug {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	sim, err := description.Load(cfgPath)
	if err != nil {
		return err
	}

	opts := Options{Workers: Workers, Validated: true}
	if PNG {
		if err := os.MkdirAll(PNGDir, 0o755); err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(cfgPath), filepath.Ext(cfgPath))
		opts.PNGPrefix = filepath.Join(PNGDir, base)
	}

	start := time.Now()
	res, err := Compile(context.Background(), sim, opts)
	if err != nil {
		return err
	}
	logging.Logger().Info("compiled", "config", cfgPath, "grids", len(res.Grids), "runlines", res.Summary.TotalRunlines(), "elapsed", time.Since(start))
	if PNG {
		logging.Logger().Debug("saved paint slices", "prefix", opts.PNGPrefix)
	}
	_, err = fmt.Fprint(w, res.Summary)
	return err
}
