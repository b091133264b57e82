package catalog

import (
	"path"
	"strings"
)

// LayerDelimiter はカテゴリ名の選択キーと重ね順キーの区切り文字です。
const LayerDelimiter = "#"

// Category は 1 種類のパーツ（目、口、胴体など）です。
// 名前は "<選択キー>#<重ね順キー>" の形式で、選択キーがスロットの割り当て順を、
// 重ね順キーが描画順を決めます。
type Category struct {
	Name      string
	SelectKey string
	LayerKey  string
	Parts     []string // カタログルートからの相対パス（自然順）
}

// ParseCategoryName はカテゴリ名を選択キーと重ね順キーに分解します。
// 区切り文字がなければ名前全体を両方のキーとして扱います。
func ParseCategoryName(name string) (selectKey, layerKey string) {
	before, after, found := strings.Cut(name, LayerDelimiter)
	if !found {
		return name, name
	}
	return before, after
}

// PaintKey は描画順を決める比較キーを返します。
// 重ね順キーとファイル名をつなげた文字列をバイト順で比較します。
func PaintKey(layerKey, ref string) string {
	key := layerKey + "/" + path.Base(ref)
	if before, _, found := strings.Cut(key, LayerDelimiter); found {
		return before
	}
	return key
}

func (c Category) clone() Category {
	c.Parts = append([]string(nil), c.Parts...)
	return c
}
