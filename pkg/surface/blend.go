package surface

import (
	"image"
)

// Paste は top を base の at の位置に、top のアルファをマスクとして重ねた新しいサーフェスを返します。
// 4 チャンネルすべてを out = top*m + base*(255-m) で混ぜ、整数演算だけで丸めるため
// プラットフォームによらず同じ結果になります。
func Paste(base, top *image.NRGBA, at image.Point) *image.NRGBA {
	out := Clone(base)

	dst := top.Bounds().Sub(top.Rect.Min).Add(at).Intersect(out.Bounds())
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		oi := out.PixOffset(dst.Min.X, y)
		ti := top.PixOffset(dst.Min.X-at.X+top.Rect.Min.X, y-at.Y+top.Rect.Min.Y)
		for x := dst.Min.X; x < dst.Max.X; x++ {
			m := uint32(top.Pix[ti+3])
			switch m {
			case 0:
			case 255:
				copy(out.Pix[oi:oi+4], top.Pix[ti:ti+4])
			default:
				for c := 0; c < 4; c++ {
					out.Pix[oi+c] = blend(out.Pix[oi+c], top.Pix[ti+c], m)
				}
			}
			oi += 4
			ti += 4
		}
	}
	return out
}

// blend は 1 チャンネル分のマスク合成です。
func blend(in1, in2 uint8, mask uint32) uint8 {
	tmp := uint32(in2)*mask + uint32(in1)*(255-mask) + 128
	return uint8((tmp + (tmp >> 8)) >> 8)
}

// Flatten はアルファを 255 にそろえ、RGB の値はそのまま残した新しいサーフェスを返します。
func Flatten(src *image.NRGBA) *image.NRGBA {
	out := Clone(src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// IsOpaque は全画素が不透明かどうかを返します。
func IsOpaque(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
