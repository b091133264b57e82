package builder

import (
	"github.com/shouni/go-robohash-kit/internal/config"
	"github.com/shouni/go-robohash-kit/internal/server"
	"github.com/shouni/go-robohash-kit/pkg/publisher"
	"github.com/shouni/go-robohash-kit/pkg/robohash"
	"github.com/shouni/go-robohash-kit/pkg/runner"
)

// BuildAvatarRunner は一括生成を担当する Runner を構築するのだ。
func BuildAvatarRunner(appCtx *AppContext) *runner.AvatarRunner {
	opts := appCtx.Options
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	return runner.NewAvatarRunner(
		appCtx.Generator,
		publisher.NewAssetManager(appCtx.Writer, outputDir),
		opts.Concurrency,
		opts.Explain,
	)
}

// BuildServer は HTTP 配信を担当する Server を構築するのだ。
func BuildServer(appCtx *AppContext) *server.Server {
	return server.New(appCtx.Generator, appCtx.Config)
}

// AvatarOptions は CLI フラグの値を生成オプションに変換するのだ。
// ゼロ値のフラグは既定値のままにするのだ。
func AvatarOptions(o config.GenerateOptions) robohash.Options {
	opts := robohash.DefaultOptions()
	if o.HashSegments != 0 {
		opts.HashSegments = o.HashSegments
	}
	opts.StripExtension = !o.KeepExtension
	opts.Set = o.Set
	opts.Color = o.Color
	opts.BackgroundSet = o.BackgroundSet
	opts.Format = o.Format
	if o.Width > 0 {
		opts.Width = o.Width
	}
	if o.Height > 0 {
		opts.Height = o.Height
	}
	return opts
}
