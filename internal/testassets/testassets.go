// Package testassets はテスト用の小さなアセットカタログを組み立てるヘルパーなのだ。
package testassets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// NativeSize はテスト用パーツ画像の一辺の長さなのだ。
const NativeSize = 16

// Layer は rect の内側だけを c で塗り、外側を完全透明にした画像を返すのだ。
func Layer(size int, rect image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Solid は全面を c で塗った画像を返すのだ。
func Solid(size int, c color.NRGBA) *image.NRGBA {
	return Layer(size, image.Rect(0, 0, size, size), c)
}

// PNG は img を PNG にエンコードするのだ。
func PNG(tb testing.TB, img image.Image) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

// File は img を PNG にした MapFile を返すのだ。
func File(tb testing.TB, img image.Image) *fstest.MapFile {
	tb.Helper()
	return &fstest.MapFile{Data: PNG(tb, img)}
}

// Robots は 2 つのロボットセットと 1 つの背景セットを持つカタログを返すのだ。
//
//	set1/{blue,red}: 01Face (全面) と 02Eyes (中央の正方形)
//	set2:            04Body (全面)、Eyes (中央)、Mouth (下部)
//	backgrounds/bg1: 全面の単色 2 枚
func Robots(tb testing.TB) fstest.MapFS {
	tb.Helper()
	full := image.Rect(0, 0, NativeSize, NativeSize)
	center := image.Rect(4, 4, 12, 12)
	bottom := image.Rect(4, 12, 12, 15)

	return fstest.MapFS{
		"sets/set1/blue/000#02Eyes/e1.png":  File(tb, Layer(NativeSize, center, color.NRGBA{0, 0, 200, 255})),
		"sets/set1/blue/000#02Eyes/e2.png":  File(tb, Layer(NativeSize, center, color.NRGBA{0, 200, 200, 255})),
		"sets/set1/blue/001#01Face/f1.png":  File(tb, Layer(NativeSize, full, color.NRGBA{0, 0, 255, 255})),
		"sets/set1/blue/001#01Face/f2.png":  File(tb, Layer(NativeSize, full, color.NRGBA{0, 0, 128, 255})),
		"sets/set1/red/000#02Eyes/e1.png":   File(tb, Layer(NativeSize, center, color.NRGBA{200, 0, 0, 255})),
		"sets/set1/red/001#01Face/f1.png":   File(tb, Layer(NativeSize, full, color.NRGBA{255, 0, 0, 255})),
		"sets/set2/000#04Body/b1.png":       File(tb, Layer(NativeSize, image.Rect(2, 2, 14, 14), color.NRGBA{0, 255, 0, 255})),
		"sets/set2/000#04Body/b2.png":       File(tb, Layer(NativeSize, image.Rect(2, 2, 14, 14), color.NRGBA{0, 128, 0, 255})),
		"sets/set2/001#Mouth/m1.png":        File(tb, Layer(NativeSize, bottom, color.NRGBA{255, 255, 0, 255})),
		"sets/set2/002#Eyes/e1.png":         File(tb, Layer(NativeSize, center, color.NRGBA{255, 0, 255, 255})),
		"backgrounds/bg1/a.png":             File(tb, Solid(NativeSize*2, color.NRGBA{10, 10, 10, 255})),
		"backgrounds/bg1/b.png":             File(tb, Solid(NativeSize*2, color.NRGBA{250, 250, 250, 255})),
		"backgrounds/bg1/.DS_Store":         &fstest.MapFile{Data: []byte("junk")},
		"sets/set2/002#Eyes/.thumbs/x.png":  &fstest.MapFile{Data: []byte("junk")},
		"sets/set1/blue/001#01Face/.hidden": &fstest.MapFile{Data: []byte("junk")},
	}
}
