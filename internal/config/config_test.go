package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数がなければ既定値になるのだ", func(t *testing.T) {
		for _, k := range []string{"ROBOHASH_ASSETS_DIR", "ROBOHASH_ADDR", "ROBOHASH_CACHE_TTL", "ROBOHASH_RATE_LIMIT", "ROBOHASH_RATE_BURST", "ROBOHASH_CACHE_SIZE_MB"} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
		cfg := LoadConfig()
		if cfg.AssetsDir != DefaultAssetsDir || cfg.Addr != DefaultAddr || cfg.CacheTTL != DefaultCacheTTL {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.RateLimit != DefaultRateLimit || cfg.RateBurst != DefaultRateBurst {
			t.Errorf("unexpected rate config: %+v", cfg)
		}
		if cfg.CacheMaxBytes != DefaultCacheSizeMB<<20 {
			t.Errorf("CacheMaxBytes = %d", cfg.CacheMaxBytes)
		}
	})

	t.Run("キャッシュの容量と無効化を読み込むのだ", func(t *testing.T) {
		t.Setenv("ROBOHASH_CACHE_SIZE_MB", "2")
		t.Setenv("ROBOHASH_CACHE_TTL", "0")
		cfg := LoadConfig()
		if cfg.CacheMaxBytes != 2<<20 {
			t.Errorf("CacheMaxBytes = %d, want %d", cfg.CacheMaxBytes, 2<<20)
		}
		if cfg.CacheTTL != 0 {
			t.Errorf("CacheTTL = %v, want 0", cfg.CacheTTL)
		}
	})

	t.Run("環境変数の値を読み込むのだ", func(t *testing.T) {
		t.Setenv("ROBOHASH_ASSETS_DIR", "/srv/assets")
		t.Setenv("ROBOHASH_CACHE_TTL", "90s")
		t.Setenv("ROBOHASH_RATE_LIMIT", "2.5")
		t.Setenv("ROBOHASH_RATE_BURST", "7")
		cfg := LoadConfig()
		if cfg.AssetsDir != "/srv/assets" || cfg.CacheTTL != 90*time.Second || cfg.RateLimit != 2.5 || cfg.RateBurst != 7 {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("不正な値は既定値に戻るのだ", func(t *testing.T) {
		t.Setenv("ROBOHASH_CACHE_TTL", "soon")
		t.Setenv("ROBOHASH_RATE_LIMIT", "-1")
		t.Setenv("ROBOHASH_RATE_BURST", "many")
		cfg := LoadConfig()
		if cfg.CacheTTL != DefaultCacheTTL || cfg.RateLimit != DefaultRateLimit || cfg.RateBurst != DefaultRateBurst {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
