// Package hashing は入力文字列を正規化し、SHA-512 ダイジェストから
// 決定論的なインデックススロット列を導出します。
//
// ダイジェストは疑似乱数の種としてだけ使われ、改ざん検知などの用途は想定していません。
package hashing

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/shouni/go-robohash-kit/pkg/domain"
)

// DefaultSegments は既定のハッシュ分割数です。
const DefaultSegments = 11

// digestHexLen は SHA-512 の 16 進表現の長さ (128) です。
const digestHexLen = sha512.Size * 2

// imageExtensions は正規化時に取り除く拡張子です。
var imageExtensions = []string{".png", ".gif", ".jpg", ".bmp", ".jpeg", ".ppm", ".datauri"}

// Normalized は正規化済みの入力と、拡張子から推定された出力フォーマットです。
type Normalized struct {
	Text   string
	Format string
}

// Normalize は末尾の画像拡張子（大文字小文字を区別しない）を取り除き、
// そのフォーマットを記録します。"x.png" と "x.bmp" が同じハッシュになるように、
// 必ずハッシュ計算の前に呼び出します。
func Normalize(raw string, stripExtension bool) Normalized {
	n := Normalized{Text: raw, Format: domain.FormatPNG}
	if !stripExtension {
		return n
	}

	for _, ext := range imageExtensions {
		if len(raw) < len(ext) || !strings.EqualFold(raw[len(raw)-len(ext):], ext) {
			continue
		}
		format := strings.ToLower(ext[1:])
		if format == "jpg" {
			format = domain.FormatJPEG
		}
		n.Text = raw[:len(raw)-len(ext)]
		n.Format = format
		return n
	}
	return n
}

// Hash はダイジェストとそこから導いたスロット列です。
type Hash struct {
	Digest     string
	SegmentLen int
	Slots      Slots
}

// Derive は text の SHA-512 を segments 個の同じ長さの区間に分割し、
// 各区間を 16 進整数として解釈したスロット列を返します。
// 余りの文字はどの区間にも含めません。
// スロット列は自分自身と連結され、長さは必ず 2*segments になります。
// 後からカテゴリが追加されても既存カテゴリのスロット位置がずれないための互換規則です。
func Derive(text string, segments int) (Hash, error) {
	if segments <= 0 {
		return Hash{}, fmt.Errorf("hashing: segments must be positive, got %d: %w", segments, domain.ErrInvalidConfiguration)
	}
	segLen := digestHexLen / segments
	if segLen == 0 {
		return Hash{}, fmt.Errorf("hashing: %d segments leave no digits per segment: %w", segments, domain.ErrInvalidConfiguration)
	}

	sum := sha512.Sum512([]byte(text))
	digest := hex.EncodeToString(sum[:])

	slots := make(Slots, 0, segments*2)
	for i := 0; i < segments; i++ {
		v, ok := new(big.Int).SetString(digest[i*segLen:(i+1)*segLen], 16)
		if !ok {
			return Hash{}, fmt.Errorf("hashing: failed to parse segment %d of %s", i, digest)
		}
		slots = append(slots, v)
	}
	slots = append(slots, slots...)

	return Hash{
		Digest:     digest,
		SegmentLen: segLen,
		Slots:      slots,
	}, nil
}
