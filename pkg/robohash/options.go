package robohash

import (
	"fmt"
	"strings"

	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/hashing"
)

// Options は Generate の呼び出しごとのパラメータです。
// DefaultOptions から始めて必要な項目だけを上書きしてください。
// HashSegments・Width・Height がゼロの場合は既定値を使います。
type Options struct {
	HashSegments   int    // ダイジェストの分割数（既定 11）
	StripExtension bool   // 末尾の画像拡張子を取り除いてからハッシュするか（既定 true）
	Set            string // セット名または "any"
	Color          string // set1 の色名
	BackgroundSet  string // 背景セット名または "any"
	Format         string // 空なら拡張子から推定、なければ png
	Width          int
	Height         int
}

// DefaultOptions は既定値を設定した Options を返します。
func DefaultOptions() Options {
	return Options{
		HashSegments:   hashing.DefaultSegments,
		StripExtension: true,
		Width:          domain.DefaultWidth,
		Height:         domain.DefaultHeight,
	}
}

// segments は実際に使う分割数を返します。負の値はそのまま渡して設定エラーにします。
func (o Options) segments() int {
	if o.HashSegments == 0 {
		return hashing.DefaultSegments
	}
	return o.HashSegments
}

// request は正規化結果から推定したフォーマットを使って AvatarRequest を組み立てます。
func (o Options) request(inferredFormat string) (domain.AvatarRequest, error) {
	format := strings.ToLower(strings.TrimSpace(o.Format))
	switch format {
	case "":
		format = inferredFormat
	case "jpg":
		format = domain.FormatJPEG
	}
	if !domain.IsKnownFormat(format) {
		return domain.AvatarRequest{}, fmt.Errorf("robohash: unsupported format %q: %w", o.Format, domain.ErrInvalidConfiguration)
	}

	req := domain.AvatarRequest{
		Set:           o.Set,
		Color:         o.Color,
		BackgroundSet: o.BackgroundSet,
		Format:        format,
		Width:         o.Width,
		Height:        o.Height,
	}
	if req.Width <= 0 {
		req.Width = domain.DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = domain.DefaultHeight
	}
	return req, nil
}
