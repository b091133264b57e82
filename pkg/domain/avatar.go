package domain

import "strings"

const (
	// Any は、セットや背景セットの選択をハッシュに委ねることを示すセレクタです。
	Any = "any"
	// ColorSet はカラーバリエーションを持つ唯一のセット名です。
	ColorSet = "set1"

	// DefaultWidth と DefaultHeight は出力画像の既定サイズです。
	DefaultWidth  = 300
	DefaultHeight = 300
	// CanonicalSize はパーツを重ね合わせる前に揃える作業解像度です。
	CanonicalSize = 1024
)

// 出力フォーマットの一覧です。
const (
	FormatPNG     = "png"
	FormatGIF     = "gif"
	FormatJPEG    = "jpeg"
	FormatBMP     = "bmp"
	FormatPPM     = "ppm"
	FormatDataURI = "datauri"
)

// AvatarRequest は 1 回の生成で利用者が指定するパラメータです。
// 生成中に書き換えられることはありません。
type AvatarRequest struct {
	Set           string // セット名または Any。空なら先頭のセット
	Color         string // set1 のときだけ有効な色名
	BackgroundSet string // 背景セット名または Any。空なら背景なし
	Format        string
	Width         int
	Height        int
}

// HasAlpha はフォーマットがアルファチャンネルを保持できるかを返します。
func HasAlpha(format string) bool {
	switch strings.ToLower(format) {
	case FormatBMP, FormatJPEG:
		return false
	}
	return true
}

// IsKnownFormat は format がエンコード可能なフォーマットかを判定します。
func IsKnownFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatPNG, FormatGIF, FormatJPEG, FormatBMP, FormatPPM, FormatDataURI:
		return true
	}
	return false
}

// MimeType はフォーマットに対応する Content-Type を返します。
func MimeType(format string) string {
	switch strings.ToLower(format) {
	case FormatGIF:
		return "image/gif"
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatPPM:
		return "image/x-portable-pixmap"
	case FormatDataURI:
		return "text/plain; charset=utf-8"
	default:
		return "image/png"
	}
}

// Extension はファイル保存時に使う拡張子（ドットなし）を返します。
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatJPEG:
		return "jpg"
	case FormatDataURI:
		return "txt"
	case "":
		return FormatPNG
	default:
		return strings.ToLower(format)
	}
}
