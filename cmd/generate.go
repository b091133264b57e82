package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-robohash-kit/internal/builder"
	"github.com/shouni/go-robohash-kit/internal/config"
	"github.com/shouni/go-robohash-kit/pkg/publisher"
	"github.com/shouni/go-robohash-kit/pkg/runner"

	"github.com/spf13/cobra"
)

// generateCmd は、入力文字列からアバター画像を生成して保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [text...]",
	Short: "アバター画像を生成してファイルに保存するのだ。",
	Long: `引数または --input-file（1 行 1 入力）の文字列ごとにアバターを生成するのだ。
ファイル名は "<入力>.<拡張子>" になるのだよ。`,
	RunE: generateCommand,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&opts.Set, "set", "s", "", `ロボットのセット名なのだ（"any" でハッシュから選ぶのだ）。`)
	f.StringVarP(&opts.Color, "color", "c", "", "set1 の色名なのだ。")
	f.StringVarP(&opts.BackgroundSet, "bgset", "b", "", `背景セット名なのだ（"any" でハッシュから選ぶのだ）。`)
	f.StringVarP(&opts.Format, "format", "f", "", "出力フォーマット（png, gif, jpeg, bmp, ppm, datauri）なのだ。")
	f.IntVar(&opts.Width, "width", 0, "出力画像の幅なのだ（既定 300）。")
	f.IntVar(&opts.Height, "height", 0, "出力画像の高さなのだ（既定 300）。")
	f.IntVar(&opts.HashSegments, "hash-segments", 0, "ダイジェストの分割数なのだ（既定 11）。")
	f.BoolVar(&opts.KeepExtension, "keep-extension", false, "末尾の画像拡張子も含めてハッシュするのだ。")
	f.StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "保存先のディレクトリなのだ。")
	f.StringVarP(&opts.InputFile, "input-file", "i", "", "入力ファイルのパス（'-'で標準入力なのだ）。")
	f.IntVarP(&opts.Concurrency, "concurrency", "p", config.DefaultConcurrency, "同時に生成する数なのだ。")
	f.BoolVar(&opts.Explain, "explain", false, "選ばれたパーツをログに出すのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	inputs, err := collectInputs(cmd, args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("入力（引数または --input-file）を指定してほしいのだ")
	}

	cfg := loadConfig()
	appCtx, err := builder.NewAppContext(cfg, publisher.NewLocalWriter())
	if err != nil {
		return err
	}

	slog.Info("アバター生成を開始するのだ！",
		"inputs", len(inputs),
		"assets", cfg.AssetsDir,
		"output", opts.OutputDir)

	results, err := builder.BuildAvatarRunner(appCtx).Run(ctx, inputs, builder.AvatarOptions(opts))
	if err != nil {
		return fmt.Errorf("アバター生成中にエラーが発生したのだ: %w", err)
	}

	for _, res := range results {
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	}
	slog.Info("すべての生成が完了したのだ！", "count", len(results))
	return nil
}

// collectInputs は引数と入力ファイルから入力文字列を集めるのだ。
func collectInputs(cmd *cobra.Command, args []string) ([]string, error) {
	inputs := append([]string(nil), args...)
	if opts.InputFile == "" {
		return inputs, nil
	}

	var r io.Reader
	if opts.InputFile == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(opts.InputFile)
		if err != nil {
			return nil, fmt.Errorf("入力ファイルを開けなかったのだ: %w", err)
		}
		defer f.Close()
		r = f
	}

	lines, err := runner.ReadInputs(r)
	if err != nil {
		return nil, err
	}
	return append(inputs, lines...), nil
}
