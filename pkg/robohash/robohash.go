// Package robohash は入力文字列から再現可能なロボットのアバター画像を生成する公開 API です。
//
// 同じ入力と同じオプションからは、いつどこで生成しても同じ画像が得られます。
//
//	gen, err := robohash.NewFromFS(os.DirFS("assets"))
//	avatar, err := gen.Generate(ctx, "robert.png", robohash.DefaultOptions())
//	data, err := gen.Encode(avatar)
package robohash

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"github.com/shouni/go-robohash-kit/pkg/catalog"
	"github.com/shouni/go-robohash-kit/pkg/compositor"
	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/hashing"
	"github.com/shouni/go-robohash-kit/pkg/selector"
	"github.com/shouni/go-robohash-kit/pkg/surface"
)

// Plan は画像を合成する前の、ハッシュと選択の結果です。
type Plan struct {
	Text      string // 正規化後の入力
	Digest    string
	Request   domain.AvatarRequest
	Selection domain.SelectionResult
}

// Avatar は生成されたアバター画像です。呼び出しごとに新しく作られます。
type Avatar struct {
	Plan
	Image *image.NRGBA
}

// MimeType は Avatar のフォーマットに対応する Content-Type を返します。
func (a *Avatar) MimeType() string {
	return domain.MimeType(a.Request.Format)
}

// Generator はカタログと Raster を束ねた生成器です。状態を持たないため同時に使えます。
type Generator struct {
	catalog    selector.Catalog
	raster     surface.Raster
	compositor *compositor.Compositor
}

// NewGenerator はカタログと Raster から Generator を生成します。
func NewGenerator(cat selector.Catalog, raster surface.Raster) *Generator {
	return &Generator{
		catalog:    cat,
		raster:     raster,
		compositor: compositor.New(raster),
	}
}

// NewFromFS は fsys をアセットのルートとして Generator を生成します。
func NewFromFS(fsys fs.FS) (*Generator, error) {
	cat, err := catalog.Load(catalog.NewFSLister(fsys))
	if err != nil {
		return nil, fmt.Errorf("robohash: failed to load catalog: %w", err)
	}
	slog.Debug("robohash catalog loaded", "catalog", cat.String())
	return NewGenerator(cat, surface.NewImageRaster(fsys)), nil
}

// Plan は input をハッシュし、使用するパーツを選びます。画像の読み込みは行いません。
func (g *Generator) Plan(input string, opts Options) (Plan, error) {
	normalized := hashing.Normalize(input, opts.StripExtension)

	h, err := hashing.Derive(normalized.Text, opts.segments())
	if err != nil {
		return Plan{}, err
	}

	req, err := opts.request(normalized.Format)
	if err != nil {
		return Plan{}, err
	}

	sel, err := selector.Select(req, h.Slots, g.catalog)
	if err != nil {
		return Plan{}, fmt.Errorf("robohash: selection failed for %q: %w", normalized.Text, err)
	}

	return Plan{
		Text:      normalized.Text,
		Digest:    h.Digest,
		Request:   req,
		Selection: sel,
	}, nil
}

// Generate は input からアバターを生成します。
// 未知のセット名・色名・背景セット名は既定の選択に落ちるだけで、エラーにはなりません。
func (g *Generator) Generate(ctx context.Context, input string, opts Options) (*Avatar, error) {
	plan, err := g.Plan(input, opts)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "robohash selection",
		"text", plan.Text,
		"set", plan.Selection.Set,
		"color", plan.Selection.Color,
		"bgset", plan.Selection.BackgroundSet,
		"parts", len(plan.Selection.Parts),
	)

	img, err := g.compositor.Compose(ctx, plan.Selection, plan.Request)
	if err != nil {
		return nil, fmt.Errorf("robohash: compose failed for %q: %w", plan.Text, err)
	}

	return &Avatar{Plan: plan, Image: img}, nil
}

// Encode は Avatar を自身のフォーマットでエンコードします。
func (g *Generator) Encode(a *Avatar) ([]byte, error) {
	return g.raster.Encode(a.Image, a.Request.Format)
}
