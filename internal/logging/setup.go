package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/Olprog59/go-contenthub/internal/config"
)

// ParseLevel maps a config level name to slog / Convertit un niveau de config en niveau slog
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup installs the default logger and returns a flush func for shutdown.
// Console output goes to out; Loki is added when enabled.
// Installe le logger par défaut et retourne une fonction de vidage.
func Setup(conf *config.Config, out io.Writer) func() error {
	level := ParseLevel(conf.Logging.Level)

	var console slog.Handler
	if strings.ToLower(conf.Logging.Format) == "json" {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     level,
			AddSource: conf.IsProduction(),
		})
	} else {
		console = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if !conf.Logging.LokiEnabled {
		slog.SetDefault(slog.New(console))
		slog.Info("📊 Logging configured", "level", level.String(), "format", conf.Logging.Format, "loki_enabled", false)
		return func() error { return nil }
	}

	loki := NewLokiHandler(conf.Logging.LokiURL, conf.Logging.LokiLabels, conf.Logging.LokiBatchSize, true, level)
	slog.SetDefault(slog.New(&multiHandler{console: console, loki: loki}))
	slog.Info("📊 Logging configured",
		"level", level.String(),
		"format", conf.Logging.Format,
		"loki_enabled", true,
		"loki_url", conf.Logging.LokiURL,
	)
	return loki.Close
}

// multiHandler writes to the console and to Loki
type multiHandler struct {
	console slog.Handler
	loki    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.loki.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.console.Enabled(ctx, record.Level) {
		if err := h.console.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	if h.loki.Enabled(ctx, record.Level) {
		_ = h.loki.Handle(ctx, record)
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{console: h.console.WithAttrs(attrs), loki: h.loki.WithAttrs(attrs)}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{console: h.console.WithGroup(name), loki: h.loki.WithGroup(name)}
}
