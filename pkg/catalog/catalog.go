// Package catalog は、アセット格納先を自然順で並べた読み取り専用のスナップショットを提供します。
//
// 格納先のレイアウトは次のとおりです。
//
//	sets/<set>/<category>/<part>.png
//	sets/set1/<color>/<category>/<part>.png
//	backgrounds/<bgset>/<background>.png
//
// 並び順はスロットとカテゴリの対応や描画順を決めるため、OS やファイルシステムの
// 列挙順に依存してはいけません。
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/shouni/go-robohash-kit/pkg/domain"
)

const (
	// SetsDir はロボットセットを格納するディレクトリ名です。
	SetsDir = "sets"
	// BackgroundsDir は背景セットを格納するディレクトリ名です。
	BackgroundsDir = "backgrounds"
)

// Catalog は Load 時点のアセット構成を保持します。
// 生成後は変更されないため、複数のゴルーチンから同時に参照できます。
type Catalog struct {
	sets        []string
	bgSets      []string
	colors      map[string][]string
	categories  map[string][]Category // key: セットパス ("set2", "set1/blue")
	backgrounds map[string][]string   // key: 背景セット名
}

// Load は Lister を使ってアセット構成を一度だけ読み込みます。
// backgrounds ディレクトリが存在しない場合は背景なしのカタログとして扱います。
func Load(l Lister) (*Catalog, error) {
	c := &Catalog{
		colors:      make(map[string][]string),
		categories:  make(map[string][]Category),
		backgrounds: make(map[string][]string),
	}

	setEntries, err := l.List(SetsDir)
	if err != nil {
		return nil, err
	}
	c.sets = filterNames(setEntries, true)

	for _, set := range c.sets {
		if set != domain.ColorSet {
			if err := c.loadCategories(l, set); err != nil {
				return nil, err
			}
			continue
		}

		colorEntries, err := l.List(path.Join(SetsDir, set))
		if err != nil {
			return nil, err
		}
		colors := filterNames(colorEntries, true)
		c.colors[set] = colors
		for _, color := range colors {
			if err := c.loadCategories(l, path.Join(set, color)); err != nil {
				return nil, err
			}
		}
	}

	bgEntries, err := l.List(BackgroundsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	c.bgSets = filterNames(bgEntries, true)
	for _, bg := range c.bgSets {
		dir := path.Join(BackgroundsDir, bg)
		fileEntries, err := l.List(dir)
		if err != nil {
			return nil, err
		}
		c.backgrounds[bg] = joinAll(dir, filterNames(fileEntries, false))
	}

	return c, nil
}

// loadCategories は setPath 直下のカテゴリとパーツを読み込みます。
func (c *Catalog) loadCategories(l Lister, setPath string) error {
	dir := path.Join(SetsDir, setPath)
	entries, err := l.List(dir)
	if err != nil {
		return err
	}

	names := filterNames(entries, true)
	categories := make([]Category, 0, len(names))
	for _, name := range names {
		catDir := path.Join(dir, name)
		partEntries, err := l.List(catDir)
		if err != nil {
			return err
		}
		selectKey, layerKey := ParseCategoryName(name)
		categories = append(categories, Category{
			Name:      name,
			SelectKey: selectKey,
			LayerKey:  layerKey,
			Parts:     joinAll(catDir, filterNames(partEntries, false)),
		})
	}
	c.categories[setPath] = categories
	return nil
}

// Sets はロボットセット名を自然順で返します。
func (c *Catalog) Sets() []string {
	return slices.Clone(c.sets)
}

// BackgroundSets は背景セット名を自然順で返します。
func (c *Catalog) BackgroundSets() []string {
	return slices.Clone(c.bgSets)
}

// Colors は set のカラーバリエーションを自然順で返します。色を持たないセットでは空です。
func (c *Catalog) Colors(set string) []string {
	return slices.Clone(c.colors[set])
}

// HasSet は name がロボットセットとして存在するかを返します。
func (c *Catalog) HasSet(name string) bool {
	return slices.Contains(c.sets, name)
}

// HasBackgroundSet は name が背景セットとして存在するかを返します。
func (c *Catalog) HasBackgroundSet(name string) bool {
	return slices.Contains(c.bgSets, name)
}

// HasColor は color が set のカラーバリエーションとして存在するかを返します。
func (c *Catalog) HasColor(set, color string) bool {
	return slices.Contains(c.colors[set], color)
}

// Categories は setPath のカテゴリを選択キーの自然順で返します。
// カテゴリが 1 つもない場合や、パーツを持たないカテゴリがある場合は ErrCatalogEmpty を返します。
func (c *Catalog) Categories(setPath string) ([]Category, error) {
	categories := c.categories[setPath]
	if len(categories) == 0 {
		return nil, domain.NewCatalogEmptyError(path.Join(SetsDir, setPath), "categories")
	}

	out := make([]Category, 0, len(categories))
	for _, cat := range categories {
		if len(cat.Parts) == 0 {
			return nil, domain.NewCatalogEmptyError(path.Join(SetsDir, setPath, cat.Name), "part files")
		}
		out = append(out, cat.clone())
	}
	return out, nil
}

// BackgroundFiles は背景セットの画像を自然順で返します。隠しファイルは含みません。
func (c *Catalog) BackgroundFiles(bgSet string) ([]string, error) {
	files := c.backgrounds[bgSet]
	if len(files) == 0 {
		return nil, domain.NewCatalogEmptyError(path.Join(BackgroundsDir, bgSet), "background files")
	}
	return slices.Clone(files), nil
}

// String はカタログの概要を返します。
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(sets=%d, colors=%d, backgrounds=%d)", len(c.sets), len(c.colors[domain.ColorSet]), len(c.bgSets))
}

func joinAll(dir string, names []string) []string {
	refs := make([]string, 0, len(names))
	for _, n := range names {
		refs = append(refs, path.Join(dir, n))
	}
	return refs
}
