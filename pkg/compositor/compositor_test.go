package compositor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/shouni/go-robohash-kit/internal/testassets"
	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/surface"
)

func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool {
		diff := int(x) - int(y)
		return diff >= -2 && diff <= 2
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func partsFS(t *testing.T) fstest.MapFS {
	size := testassets.NativeSize
	return fstest.MapFS{
		"head.png":  testassets.File(t, testassets.Solid(size, color.NRGBA{255, 0, 0, 255})),
		"eyes.png":  testassets.File(t, testassets.Layer(size, image.Rect(4, 4, 12, 12), color.NRGBA{0, 0, 255, 255})),
		"ring.png":  testassets.File(t, testassets.Layer(size, image.Rect(4, 4, 12, 12), color.NRGBA{255, 0, 0, 255})),
		"bg.png":    testassets.File(t, testassets.Solid(size*3, color.NRGBA{0, 255, 0, 255})),
		"large.png": testassets.File(t, testassets.Layer(size*4, image.Rect(16, 16, 48, 48), color.NRGBA{0, 0, 255, 255})),
	}
}

func selection(bg string, refs ...string) domain.SelectionResult {
	sel := domain.SelectionResult{Set: "set2", Background: bg}
	for _, r := range refs {
		sel.Parts = append(sel.Parts, domain.Part{Ref: r})
	}
	return sel
}

func TestCompose(t *testing.T) {
	c := New(surface.NewImageRaster(partsFS(t)))
	ctx := context.Background()
	req := domain.AvatarRequest{Format: "png", Width: 64, Height: 64}

	tests := []struct {
		name   string
		sel    domain.SelectionResult
		req    domain.AvatarRequest
		checks map[image.Point]color.NRGBA
	}{
		{
			name: "後のレイヤーが前のレイヤーの上に描かれること",
			sel:  selection("", "head.png", "eyes.png"),
			req:  req,
			checks: map[image.Point]color.NRGBA{
				{32, 32}: {0, 0, 255, 255},
				{4, 4}:   {255, 0, 0, 255},
			},
		},
		{
			name: "重ね順を逆にすると下のレイヤーが隠れること",
			sel:  selection("", "eyes.png", "head.png"),
			req:  req,
			checks: map[image.Point]color.NRGBA{
				{32, 32}: {255, 0, 0, 255},
			},
		},
		{
			name: "解像度の異なるパーツも同じ位置にそろうこと",
			sel:  selection("", "head.png", "large.png"),
			req:  req,
			checks: map[image.Point]color.NRGBA{
				{32, 32}: {0, 0, 255, 255},
				{4, 4}:   {255, 0, 0, 255},
			},
		},
		{
			name: "背景がロボットの下に敷かれること",
			sel:  selection("bg.png", "ring.png"),
			req:  req,
			checks: map[image.Point]color.NRGBA{
				{32, 32}: {255, 0, 0, 255},
				{4, 4}:   {0, 255, 0, 255},
			},
		},
		{
			name: "pngでは透明部分が残ること",
			sel:  selection("", "ring.png"),
			req:  req,
			checks: map[image.Point]color.NRGBA{
				{32, 32}: {255, 0, 0, 255},
				{4, 4}:   {0, 0, 0, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compose(ctx, tt.sel, tt.req)
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if got.Bounds() != image.Rect(0, 0, 64, 64) {
				t.Fatalf("bounds = %v", got.Bounds())
			}
			for pt, want := range tt.checks {
				if px := got.NRGBAAt(pt.X, pt.Y); !near(px, want) {
					t.Errorf("pixel %v = %v, want %v", pt, px, want)
				}
			}
		})
	}
}

func TestCompose_Flatten(t *testing.T) {
	c := New(surface.NewImageRaster(partsFS(t)))

	for _, format := range []string{"bmp", "jpeg"} {
		t.Run(format, func(t *testing.T) {
			got, err := c.Compose(context.Background(), selection("", "ring.png"), domain.AvatarRequest{Format: format, Width: 64, Height: 64})
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if !surface.IsOpaque(got) {
				t.Error("アルファが平坦化されていないのだ")
			}
			if px := got.NRGBAAt(32, 32); !near(px, color.NRGBA{255, 0, 0, 255}) {
				t.Errorf("opaque source pixel = %v", px)
			}
		})
	}
}

func TestCompose_Size(t *testing.T) {
	c := New(surface.NewImageRaster(partsFS(t)))
	sel := selection("", "head.png", "eyes.png")

	small, err := c.Compose(context.Background(), sel, domain.AvatarRequest{Width: 100, Height: 50})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if small.Bounds() != image.Rect(0, 0, 100, 50) {
		t.Errorf("bounds = %v", small.Bounds())
	}

	def, err := c.Compose(context.Background(), sel, domain.AvatarRequest{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if def.Bounds() != image.Rect(0, 0, domain.DefaultWidth, domain.DefaultHeight) {
		t.Errorf("default bounds = %v", def.Bounds())
	}
}

func TestCompose_Errors(t *testing.T) {
	c := New(surface.NewImageRaster(partsFS(t)))
	ctx := context.Background()

	t.Run("パーツがない場合はCatalogEmpty", func(t *testing.T) {
		_, err := c.Compose(ctx, domain.SelectionResult{Set: "set2"}, domain.AvatarRequest{})
		if !errors.Is(err, domain.ErrCatalogEmpty) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("読み込みエラーはそのまま伝わること", func(t *testing.T) {
		_, err := c.Compose(ctx, selection("", "head.png", "missing.png"), domain.AvatarRequest{})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("背景の読み込みエラー", func(t *testing.T) {
		_, err := c.Compose(ctx, selection("missing-bg.png", "head.png"), domain.AvatarRequest{})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("err = %v", err)
		}
	})
}
