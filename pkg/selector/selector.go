// Package selector はインデックススロットとカタログから、使用するセット・色・背景・
// パーツを決定論的に選びます。
package selector

import (
	"fmt"
	"sort"

	"github.com/shouni/go-robohash-kit/pkg/catalog"
	"github.com/shouni/go-robohash-kit/pkg/domain"
	"github.com/shouni/go-robohash-kit/pkg/hashing"
)

// Catalog は選択に必要なカタログの読み取り操作です。*catalog.Catalog が満たします。
type Catalog interface {
	Sets() []string
	BackgroundSets() []string
	Colors(set string) []string
	HasSet(name string) bool
	HasColor(set, color string) bool
	HasBackgroundSet(name string) bool
	Categories(setPath string) ([]catalog.Category, error)
	BackgroundFiles(bgSet string) ([]string, error)
}

// Select は req と slots から 1 体分のパーツ構成を選びます。
//
// 未知のセット名・色名・背景セット名はエラーにせず、決められた既定値に落とします。
// 同じ入力・同じカタログからは常に同じ結果になります。
func Select(req domain.AvatarRequest, slots hashing.Slots, cat Catalog) (domain.SelectionResult, error) {
	var result domain.SelectionResult
	if len(slots) == 0 {
		return result, fmt.Errorf("selector: no index slots: %w", domain.ErrInvalidConfiguration)
	}

	set, err := resolveSet(req.Set, slots, cat)
	if err != nil {
		return result, err
	}
	result.Set = set

	if set == domain.ColorSet {
		color, err := resolveColor(req.Color, slots, cat)
		if err != nil {
			return result, err
		}
		result.Color = color
	}

	bgSet, err := resolveBackgroundSet(req.BackgroundSet, slots, cat)
	if err != nil {
		return result, err
	}
	result.BackgroundSet = bgSet

	categories, err := cat.Categories(result.SetPath())
	if err != nil {
		return result, err
	}

	acc := walk{next: hashing.FirstCategorySlot}
	for _, c := range categories {
		acc, err = acc.pick(c, slots)
		if err != nil {
			return result, err
		}
	}
	result.Parts = sortForPainting(acc.parts)

	if bgSet != "" {
		files, err := cat.BackgroundFiles(bgSet)
		if err != nil {
			return result, err
		}
		idx, err := pick(slots, hashing.BackgroundFileSlot, files, catalog.BackgroundsDir+"/"+bgSet, "background files")
		if err != nil {
			return result, err
		}
		result.Background = files[idx]
	}

	return result, nil
}

// resolveSet は "any" ならスロット 1 で選び、既知の名前ならそのまま、それ以外は先頭のセットを返します。
func resolveSet(requested string, slots hashing.Slots, cat Catalog) (string, error) {
	sets := cat.Sets()
	if len(sets) == 0 {
		return "", domain.NewCatalogEmptyError(catalog.SetsDir, "sets")
	}
	switch {
	case requested == domain.Any:
		return sets[slots.Index(hashing.SetSlot, len(sets))], nil
	case cat.HasSet(requested):
		return requested, nil
	default:
		return sets[0], nil
	}
}

// resolveColor は既知の色ならそのまま、それ以外はスロット 0 で選びます。
func resolveColor(requested string, slots hashing.Slots, cat Catalog) (string, error) {
	if cat.HasColor(domain.ColorSet, requested) {
		return requested, nil
	}
	colors := cat.Colors(domain.ColorSet)
	idx, err := pick(slots, hashing.ColorSlot, colors, catalog.SetsDir+"/"+domain.ColorSet, "colors")
	if err != nil {
		return "", err
	}
	return colors[idx], nil
}

// resolveBackgroundSet は既知の名前ならそのまま、"any" ならスロット 2 で選び、それ以外は背景なしにします。
func resolveBackgroundSet(requested string, slots hashing.Slots, cat Catalog) (string, error) {
	switch {
	case cat.HasBackgroundSet(requested):
		return requested, nil
	case requested == domain.Any:
		bgSets := cat.BackgroundSets()
		idx, err := pick(slots, hashing.BackgroundSetSlot, bgSets, catalog.BackgroundsDir, "background sets")
		if err != nil {
			return "", err
		}
		return bgSets[idx], nil
	default:
		return "", nil
	}
}

// walk はカテゴリ走査の累積値で、次に使うスロット位置と選ばれたパーツを持ちます。
type walk struct {
	next  int
	parts []domain.Part
}

// pick はカテゴリ c からパーツを 1 つ選び、スロット位置を 1 つ進めた累積値を返します。
func (w walk) pick(c catalog.Category, slots hashing.Slots) (walk, error) {
	idx, err := pick(slots, w.next, c.Parts, c.Name, "part files")
	if err != nil {
		return w, err
	}
	part := domain.Part{
		Category: c.Name,
		LayerKey: c.LayerKey,
		Ref:      c.Parts[idx],
		Slot:     w.next,
	}
	parts := append(w.parts[:len(w.parts):len(w.parts)], part)
	return walk{next: w.next + 1, parts: parts}, nil
}

// pick は一覧が空でないことを確かめてから、スロット pos の値で添字を決めます。
func pick(slots hashing.Slots, pos int, items []string, where, what string) (int, error) {
	if len(items) == 0 {
		return 0, domain.NewCatalogEmptyError(where, what)
	}
	return slots.Index(pos, len(items)), nil
}

// sortForPainting はパーツを重ね順キーで安定ソートします。
func sortForPainting(parts []domain.Part) []domain.Part {
	sorted := append([]domain.Part(nil), parts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return catalog.PaintKey(sorted[i].LayerKey, sorted[i].Ref) < catalog.PaintKey(sorted[j].LayerKey, sorted[j].Ref)
	})
	return sorted
}
