package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Entry はディレクトリ直下の 1 エントリです。
type Entry struct {
	Name  string
	IsDir bool
}

// Lister はカタログの格納先を列挙するための外部コラボレータです。
// 返す順序に意味はなく、並び替えと隠しエントリの除外は Catalog 側で行います。
type Lister interface {
	List(dir string) ([]Entry, error)
}

// FSLister は fs.FS をそのまま Lister として扱います。
type FSLister struct {
	fsys fs.FS
}

// NewFSLister は fs.FS を列挙する Lister を生成します。
func NewFSLister(fsys fs.FS) *FSLister {
	return &FSLister{fsys: fsys}
}

// List は dir 直下のエントリを返します。シンボリックリンクはリンク先で判定します。
func (l *FSLister) List(dir string) ([]Entry, error) {
	dirEntries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		isDir := de.IsDir()
		if de.Type()&fs.ModeSymlink != 0 {
			info, err := fs.Stat(l.fsys, path.Join(dir, de.Name()))
			if err != nil {
				return nil, fmt.Errorf("catalog: failed to stat %s: %w", path.Join(dir, de.Name()), err)
			}
			isDir = info.IsDir()
		}
		entries = append(entries, Entry{Name: de.Name(), IsDir: isDir})
	}
	return entries, nil
}

// isHidden はドットで始まる隠しエントリかどうかを判定します。
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
