// Package compositor は選ばれたパーツを作業解像度にそろえ、重ね順に合成して
// 要求されたサイズの 1 枚の画像にします。
package compositor

import (
	"context"
	"fmt"
	"image"

	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/surface"
)

// Compositor は Raster を使ってパーツを合成します。状態を持たないため同時に使えます。
type Compositor struct {
	raster        surface.Raster
	canonicalSize int
}

// New は Raster を使う Compositor を生成します。
func New(r surface.Raster) *Compositor {
	return &Compositor{
		raster:        r,
		canonicalSize: domain.CanonicalSize,
	}
}

// Compose は selection のパーツを重ね順に合成し、req の幅と高さで返します。
//
//  1. 各パーツを読み込んで作業解像度 (1024x1024) に拡大縮小する
//  2. 先頭のパーツを土台にし、残りを自身のアルファをマスクにして (0,0) に貼る
//  3. 背景があれば作業解像度にそろえ、その上にロボットを貼る
//  4. アルファを持たないフォーマットならアルファを平坦化する
//  5. 要求サイズへ高品質なカーネルで縮小する
func (c *Compositor) Compose(ctx context.Context, selection domain.SelectionResult, req domain.AvatarRequest) (*image.NRGBA, error) {
	if len(selection.Parts) == 0 {
		return nil, domain.NewCatalogEmptyError(selection.SetPath(), "selected parts")
	}

	robot, err := c.canonical(ctx, selection.Parts[0].Ref)
	if err != nil {
		return nil, err
	}
	for _, part := range selection.Parts[1:] {
		layer, err := c.canonical(ctx, part.Ref)
		if err != nil {
			return nil, err
		}
		robot = c.raster.PasteWithAlpha(robot, layer, 0, 0)
	}

	if selection.HasBackground() {
		bg, err := c.canonical(ctx, selection.Background)
		if err != nil {
			return nil, err
		}
		robot = c.raster.PasteWithAlpha(bg, robot, 0, 0)
	}

	if !domain.HasAlpha(req.Format) {
		robot = c.raster.FlattenAlpha(robot)
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = domain.DefaultWidth
	}
	if height <= 0 {
		height = domain.DefaultHeight
	}
	return c.raster.Resize(robot, width, height), nil
}

// canonical は ref を読み込み、作業解像度にそろえます。
func (c *Compositor) canonical(ctx context.Context, ref string) (*image.NRGBA, error) {
	img, err := c.raster.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("compositor: failed to load layer: %w", err)
	}
	return c.raster.Resize(img, c.canonicalSize, c.canonicalSize), nil
}
