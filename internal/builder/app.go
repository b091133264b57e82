package builder

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/shouni/go-robohash-kit/internal/config"
	"github.com/shouni/go-robohash-kit/pkg/publisher"
	"github.com/shouni/go-robohash-kit/pkg/robohash"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持するのだ。
// これを各 Build 関数に渡すことで、依存関係の注入を簡素化するのだ。
type AppContext struct {
	Config    *config.Config         // 環境変数から読み込まれたグローバルな設定なのだ。
	Options   config.GenerateOptions // コマンドラインから渡された実行時の設定なのだ。
	Writer    publisher.OutputWriter // 生成物の保存先なのだ。
	Generator *robohash.Generator    // アセットカタログを読み込み済みの生成器なのだ。
}

// NewAppContext は cfg.AssetsDir のアセットを読み込んで AppContext を生成するのだ。
func NewAppContext(cfg *config.Config, writer publisher.OutputWriter) (*AppContext, error) {
	return NewAppContextFS(cfg, os.DirFS(cfg.AssetsDir), writer)
}

// NewAppContextFS は任意の fs.FS をアセットのルートとして AppContext を生成するのだ。
func NewAppContextFS(cfg *config.Config, assets fs.FS, writer publisher.OutputWriter) (*AppContext, error) {
	gen, err := robohash.NewFromFS(assets)
	if err != nil {
		return nil, fmt.Errorf("アセット (%s) の読み込みに失敗したのだ: %w", cfg.AssetsDir, err)
	}
	return &AppContext{
		Config:    cfg,
		Options:   cfg.Options,
		Writer:    writer,
		Generator: gen,
	}, nil
}
