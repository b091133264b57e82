// Package surface は合成に使うラスタ操作（読み込み・拡大縮小・アルファ付き貼り付け・
// アルファの平坦化・エンコード）を提供します。
//
// サーフェスは *image.NRGBA（非乗算アルファ）で表します。
package surface

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Raster は合成処理が利用するラスタ操作のコラボレータです。
// 実装は同時に独立した呼び出しを受けても安全でなければなりません。
type Raster interface {
	Load(ctx context.Context, ref string) (*image.NRGBA, error)
	Resize(src *image.NRGBA, width, height int) *image.NRGBA
	PasteWithAlpha(base, top *image.NRGBA, x, y int) *image.NRGBA
	FlattenAlpha(src *image.NRGBA) *image.NRGBA
	Encode(img image.Image, format string) ([]byte, error)
}

// ImageRaster は fs.FS から画像を読み込む標準の Raster 実装です。
type ImageRaster struct {
	fsys   fs.FS
	scaler draw.Scaler
}

// NewImageRaster は fsys を読み込み元とする ImageRaster を生成します。
// 拡大縮小には Catmull-Rom カーネルを使います。
func NewImageRaster(fsys fs.FS) *ImageRaster {
	return &ImageRaster{
		fsys:   fsys,
		scaler: draw.CatmullRom,
	}
}

// Load は ref の画像をデコードし、NRGBA に変換して返します。
func (r *ImageRaster) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := r.fsys.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("surface: failed to open %s: %w", ref, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("surface: failed to decode %s: %w", ref, err)
	}
	return ToNRGBA(img), nil
}

// Resize は src を width×height に拡大縮小した新しいサーフェスを返します。
// サイズが同じ場合はコピーを返します。
func (r *ImageRaster) Resize(src *image.NRGBA, width, height int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return Clone(src)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.scaler.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// PasteWithAlpha は top を base の (x, y) に、top 自身のアルファをマスクとして貼り付けます。
func (r *ImageRaster) PasteWithAlpha(base, top *image.NRGBA, x, y int) *image.NRGBA {
	return Paste(base, top, image.Pt(x, y))
}

// FlattenAlpha はアルファを捨てて RGB だけを残したサーフェスを返します。
func (r *ImageRaster) FlattenAlpha(src *image.NRGBA) *image.NRGBA {
	return Flatten(src)
}

// Encode は img を format でエンコードします。
func (r *ImageRaster) Encode(img image.Image, format string) ([]byte, error) {
	return Encode(img, format)
}

// ToNRGBA は任意の画像を原点起点の NRGBA に変換します。
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Clone は src の複製を返します。
func Clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
