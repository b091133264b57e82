package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-robohash-kit/pkg/domain"
)

const (
	// maxNameRunes はファイル名に使う入力テキストの最大文字数です。
	maxNameRunes = 100
	// digestSuffixLen は衝突回避のためファイル名に付けるダイジェストの長さです。
	digestSuffixLen = 8
)

// fileNameSanitizer はファイル名として使用できない文字を置換します。
var fileNameSanitizer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "_",
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
type OutputWriter interface {
	Write(ctx context.Context, path string, data []byte) error
}

// LocalWriter はローカルファイルシステムに書き込む OutputWriter です。
type LocalWriter struct{}

// NewLocalWriter は LocalWriter を生成します。
func NewLocalWriter() *LocalWriter {
	return &LocalWriter{}
}

// Write は親ディレクトリを作成してから data を書き込みます。
func (w *LocalWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local_writer: ディレクトリの作成に失敗しました (path: %s): %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("local_writer: ファイルの書き込みに失敗しました (path: %s): %w", path, err)
	}
	return nil
}

// AssetManager は生成物の保存パスと永続化を管理します。
type AssetManager struct {
	writer  OutputWriter
	baseDir string // 保存先のベースディレクトリ (例: "output/avatars")
}

func NewAssetManager(writer OutputWriter, baseDir string) *AssetManager {
	return &AssetManager{
		writer:  writer,
		baseDir: baseDir,
	}
}

// SaveImage は画像データを保存し、その保存先のパスを返します。
func (am *AssetManager) SaveImage(ctx context.Context, fileName string, data []byte) (string, error) {
	fullPath, err := urlpath.ResolvePath(am.baseDir, fileName)
	if err != nil {
		return "", fmt.Errorf("asset_manager: 保存パスの生成に失敗しました (file: %s): %w", fileName, err)
	}
	if err := am.writer.Write(ctx, fullPath, data); err != nil {
		return "", fmt.Errorf("asset_manager: 画像の保存に失敗しました: %w", err)
	}
	return fullPath, nil
}

// AvatarFileName は正規化済みテキストから "<name>.<ext>" 形式のファイル名を作ります。
// テキストを書き換えた場合や空の場合は、ダイジェストの先頭を付けて衝突を避けます。
func AvatarFileName(text, digest, format string) string {
	name := fileNameSanitizer.Replace(text)
	if r := []rune(name); len(r) > maxNameRunes {
		name = string(r[:maxNameRunes])
	}
	if name != text || name == "" || strings.HasPrefix(name, ".") {
		suffix := digest
		if len(suffix) > digestSuffixLen {
			suffix = suffix[:digestSuffixLen]
		}
		if name == "" {
			name = suffix
		} else {
			name = name + "-" + suffix
		}
	}
	return name + "." + domain.Extension(format)
}
