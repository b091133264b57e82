package cmd

import (
	"log/slog"
	"testing"

	"github.com/shouni/go-robohash-kit/internal/config"
)

func TestLogLevel(t *testing.T) {
	t.Run("設定のログレベルを使うのだ", func(t *testing.T) {
		t.Setenv("ROBOHASH_LOG_LEVEL", "warn")
		if got := logLevel(config.LoadConfig(), false); got != slog.LevelWarn {
			t.Errorf("level = %v, want WARN", got)
		}
	})

	t.Run("--verbose は設定より優先なのだ", func(t *testing.T) {
		cfg := &config.Config{LogLevel: "error"}
		if got := logLevel(cfg, true); got != slog.LevelDebug {
			t.Errorf("level = %v, want DEBUG", got)
		}
	})
}
