// Package server はアバターを HTTP で配信するのだ。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/shouni/go-robohash-kit/internal/config"
	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/hashing"
	"github.com/shouni/go-robohash-kit/pkg/robohash"
)

const (
	defaultText     = "example"
	cacheControl    = "public, max-age=31536000"
	shutdownTimeout = 10 * time.Second
)

// AvatarGenerator はサーバーが必要とする生成器の振る舞いなのだ。
type AvatarGenerator interface {
	Generate(ctx context.Context, input string, opts robohash.Options) (*robohash.Avatar, error)
	Encode(a *robohash.Avatar) ([]byte, error)
}

// encoded はキャッシュに載せるエンコード済みのレスポンスなのだ。
type encoded struct {
	data     []byte
	mimeType string
	etag     string
	modified time.Time
}

// Server は生成結果を容量付きの TTL キャッシュに載せつつ配信する HTTP ハンドラなのだ。
type Server struct {
	gen     AvatarGenerator
	cache   *avatarCache
	group   singleflight.Group
	limiter *rate.Limiter // nil なら無制限なのだ
	version string
	now     func() time.Time
}

// New は設定から Server を組み立てるのだ。
func New(gen AvatarGenerator, cfg *config.Config) *Server {
	s := &Server{
		gen:     gen,
		cache:   newAvatarCache(cfg.CacheTTL, cfg.CacheMaxBytes),
		version: cfg.Version,
		now:     time.Now,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	return s
}

// Handler はルーティング済みの http.Handler を返すのだ。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleAvatar)
	return mux
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:    "ok",
		Version:   s.version,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "ヘルスチェックの応答に失敗したのだ", "error", err)
	}
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	input := strings.TrimPrefix(r.URL.Path, "/")

	if strings.HasPrefix(input, "favicon") {
		http.NotFound(w, r)
		return
	}
	if s.limiter != nil && !s.limiter.Allow() {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	if hashing.Normalize(input, true).Text == "" {
		input = defaultText + input
	}
	opts := optionsFromQuery(r)

	key := cacheKey(input, opts)
	res, err := s.lookup(ctx, key, input, opts)
	if err != nil {
		status := statusFor(err)
		slog.ErrorContext(ctx, "アバターの生成に失敗したのだ", "input", input, "status", status, "error", err)
		http.Error(w, fmt.Sprintf("Error generating image: %v", err), status)
		return
	}

	h := w.Header()
	h.Set("Cache-Control", cacheControl)
	h.Set("ETag", res.etag)
	h.Set("Last-Modified", res.modified.UTC().Format(http.TimeFormat))
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, res.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.Set("Content-Type", res.mimeType)
	h.Set("Content-Length", strconv.Itoa(len(res.data)))
	if _, err := w.Write(res.data); err != nil {
		slog.DebugContext(ctx, "レスポンスの書き込みに失敗したのだ", "error", err)
	}
}

// lookup はキャッシュを確認し、なければ同じキーの生成を 1 回にまとめて実行するのだ。
func (s *Server) lookup(ctx context.Context, key, input string, opts robohash.Options) (*encoded, error) {
	if e, ok := s.cache.get(key); ok {
		return e, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		// 先頭のリクエストが切断されても相乗りした側は完了させるのだ。
		avatar, err := s.gen.Generate(context.WithoutCancel(ctx), input, opts)
		if err != nil {
			return nil, err
		}
		data, err := s.gen.Encode(avatar)
		if err != nil {
			return nil, fmt.Errorf("server: failed to encode %q: %w", input, err)
		}
		res := &encoded{
			data:     data,
			mimeType: avatar.MimeType(),
			etag:     fmt.Sprintf(`"%016x"`, xxhash.Sum64(data)),
			modified: s.now(),
		}
		if !s.cache.put(key, res) {
			slog.DebugContext(ctx, "キャッシュの予算を超えるので保存しないのだ", "input", input, "bytes", len(data))
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "同時リクエストの生成結果を共有したのだ", "input", input)
	}
	return v.(*encoded), nil
}

// optionsFromQuery はクエリパラメータを生成オプションに変換するのだ。
func optionsFromQuery(r *http.Request) robohash.Options {
	q := r.URL.Query()
	opts := robohash.DefaultOptions()
	opts.Set = q.Get("set")
	opts.Color = q.Get("color")
	opts.BackgroundSet = q.Get("bgset")
	if w, h, ok := ParseSize(q.Get("size")); ok {
		opts.Width, opts.Height = w, h
	}
	return opts
}

// ParseSize は "WxH" を解釈し、各辺を許容範囲に収めるのだ。
func ParseSize(raw string) (width, height int, ok bool) {
	ws, hs, found := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "x")
	if !found {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return clamp(w), clamp(h), true
}

func clamp(n int) int {
	return min(max(n, config.MinImageSize), config.MaxImageSize)
}

// cacheKey は入力とオプションの組から固定長のキーを作るのだ。
func cacheKey(input string, opts robohash.Options) string {
	d := xxhash.New()
	for _, part := range []string{input, opts.Set, opts.Color, opts.BackgroundSet} {
		_, _ = d.WriteString(part)
		_, _ = d.WriteString("\x00")
	}
	_, _ = d.WriteString(fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	return strconv.FormatUint(d.Sum64(), 16)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidConfiguration) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ListenAndServe は ctx がキャンセルされるまで addr で待ち受けるのだ。
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTP サーバーを起動したのだ", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		slog.InfoContext(ctx, "HTTP サーバーを停止するのだ")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown failed: %w", err)
		}
		return nil
	}
}
