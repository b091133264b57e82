package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/hashing"
	"github.com/shouni/go-robohash-kit/pkg/publisher"
	"github.com/shouni/go-robohash-kit/pkg/robohash"
)

// DefaultConcurrency は同時に生成するアバター数の既定値です。
const DefaultConcurrency = 4

// AvatarGenerator は Runner が必要とする生成器の振る舞いです。
type AvatarGenerator interface {
	Generate(ctx context.Context, input string, opts robohash.Options) (*robohash.Avatar, error)
	Encode(a *robohash.Avatar) ([]byte, error)
}

// Result は 1 件の生成結果です。
type Result struct {
	Input     string
	Path      string
	Digest    string
	Selection domain.SelectionResult
}

// AvatarRunner は複数の入力からアバターを並行に生成して保存する実行実体です。
type AvatarRunner struct {
	gen         AvatarGenerator
	assets      *publisher.AssetManager
	concurrency int
	explain     bool
}

// NewAvatarRunner は依存関係を注入して初期化します。concurrency が 0 以下なら既定値を使います。
func NewAvatarRunner(gen AvatarGenerator, assets *publisher.AssetManager, concurrency int, explain bool) *AvatarRunner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &AvatarRunner{
		gen:         gen,
		assets:      assets,
		concurrency: concurrency,
		explain:     explain,
	}
}

// Run は inputs のアバターを生成して保存し、入力順に結果を返します。
// 同じファイルに保存される入力は最初の 1 件だけを処理します。
// いずれかが失敗すると残りの処理を打ち切り、最初のエラーを返します。
func (r *AvatarRunner) Run(ctx context.Context, inputs []string, opts robohash.Options) ([]Result, error) {
	unique := dedupe(inputs, opts)
	results := make([]Result, len(unique))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)

	for i, input := range unique {
		eg.Go(func() error {
			res, err := r.runOne(egCtx, input, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *AvatarRunner) runOne(ctx context.Context, input string, opts robohash.Options) (Result, error) {
	avatar, err := r.gen.Generate(ctx, input, opts)
	if err != nil {
		return Result{}, fmt.Errorf("アバターの生成に失敗しました (input: %q): %w", input, err)
	}
	data, err := r.gen.Encode(avatar)
	if err != nil {
		return Result{}, fmt.Errorf("アバターのエンコードに失敗しました (input: %q): %w", input, err)
	}

	fileName := publisher.AvatarFileName(avatar.Text, avatar.Digest, avatar.Request.Format)
	path, err := r.assets.SaveImage(ctx, fileName, data)
	if err != nil {
		return Result{}, err
	}

	if r.explain {
		slog.InfoContext(ctx, "選択結果",
			"input", input,
			"digest", avatar.Digest,
			"set", avatar.Selection.Set,
			"color", avatar.Selection.Color,
			"bgset", avatar.Selection.BackgroundSet,
			"background", avatar.Selection.Background,
			"parts", avatar.Selection.Refs(),
		)
	}
	slog.DebugContext(ctx, "アバターを保存しました", "input", input, "path", path, "bytes", len(data))

	return Result{
		Input:     input,
		Path:      path,
		Digest:    avatar.Digest,
		Selection: avatar.Selection,
	}, nil
}

// dedupe は保存先が重複する入力を取り除きます。順序は保たれます。
func dedupe(inputs []string, opts robohash.Options) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		n := hashing.Normalize(input, opts.StripExtension)
		key := n.Text + "\x00" + n.Format
		if opts.Format != "" {
			key = n.Text
		}
		if _, ok := seen[key]; ok {
			slog.Debug("重複した入力をスキップします", "input", input)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, input)
	}
	return out
}

// ReadInputs は 1 行 1 入力として r を読み込みます。空行と "#" で始まる行は無視します。
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("入力の読み込みに失敗しました: %w", err)
	}
	return inputs, nil
}
