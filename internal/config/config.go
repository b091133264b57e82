package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultAssetsDir    = "assets"
	DefaultAddr         = ":8080"
	DefaultOutputDir    = "output"
	DefaultCacheTTL     = 1 * time.Hour
	DefaultCacheCleanup = 10 * time.Minute
	DefaultCacheSizeMB  = 64
	DefaultRateLimit    = 50.0 // 1 秒あたりのリクエスト数
	DefaultRateBurst    = 100
	DefaultConcurrency  = 4
	DefaultLogLevel     = "info"
	DefaultVersion      = "HEAD"

	// MinImageSize と MaxImageSize は HTTP から指定できる一辺の範囲なのだ。
	MinImageSize = 10
	MaxImageSize = 1024
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	AssetsDir     string
	Addr          string
	CacheTTL      time.Duration // 0 ならキャッシュしないのだ
	CacheMaxBytes int64         // キャッシュに載せる画像の合計バイト数の上限なのだ
	RateLimit     float64
	RateBurst     int
	LogLevel      string
	Version       string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 解釈できない値は警告を出して既定値に戻すのだ。
// ROBOHASH_CACHE_TTL=0 や ROBOHASH_CACHE_SIZE_MB=0 はキャッシュの無効化なのだ。
func LoadConfig() *Config {
	cfg := &Config{
		AssetsDir:     envutil.GetEnv("ROBOHASH_ASSETS_DIR", DefaultAssetsDir),
		Addr:          envutil.GetEnv("ROBOHASH_ADDR", DefaultAddr),
		CacheTTL:      parseDuration("ROBOHASH_CACHE_TTL", DefaultCacheTTL),
		CacheMaxBytes: int64(parseInt("ROBOHASH_CACHE_SIZE_MB", DefaultCacheSizeMB)) << 20,
		RateLimit:     parseFloat("ROBOHASH_RATE_LIMIT", DefaultRateLimit),
		RateBurst:     parseInt("ROBOHASH_RATE_BURST", DefaultRateBurst),
		LogLevel:      envutil.GetEnv("ROBOHASH_LOG_LEVEL", DefaultLogLevel),
		Version:       envutil.GetEnv("ROBOHASH_VERSION", DefaultVersion),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ハッシュと選択
	HashSegments  int    // --hash-segments
	KeepExtension bool   // --keep-extension
	Set           string // --set
	Color         string // --color
	BackgroundSet string // --bgset

	// 出力
	Format    string // --format
	Width     int    // --width
	Height    int    // --height
	OutputDir string // --output-dir
	InputFile string // --input-file（'-'で標準入力なのだ）
	Explain   bool   // --explain

	// 実行制御
	Concurrency int    // --concurrency
	Addr        string // --addr
	Verbose     bool   // --verbose
}

// ParseLogLevel はログレベル文字列を slog.Level に変換するのだ。
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("環境変数の期間を解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return def
	}
	return d
}

func parseFloat(key string, def float64) float64 {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		slog.Warn("環境変数の数値を解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return def
	}
	return f
}

func parseInt(key string, def int) int {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("環境変数の整数を解釈できないので既定値を使うのだ", "key", key, "value", raw)
		return def
	}
	return n
}
