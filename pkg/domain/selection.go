package domain

import "path"

// Part は選ばれた 1 つのパーツ画像です。
type Part struct {
	Category string // カテゴリのディレクトリ名（例: "003#01Body"）
	LayerKey string // 重ね順のキー（例: "01Body"）
	Ref      string // カタログルートからの相対パス
	Slot     int    // 消費したインデックススロットの位置
}

// SelectionResult は選択エンジンの結果です。Parts は重ね順に並んでいます。
type SelectionResult struct {
	Set           string
	Color         string
	BackgroundSet string
	Background    string // 背景画像の参照。背景なしなら空
	Parts         []Part
}

// SetPath はカテゴリを列挙する対象のセットパスを返します。
func (s SelectionResult) SetPath() string {
	if s.Color == "" {
		return s.Set
	}
	return path.Join(s.Set, s.Color)
}

// HasBackground は背景画像が選ばれているかを返します。
func (s SelectionResult) HasBackground() bool {
	return s.Background != ""
}

// Refs は重ね順に並んだパーツの参照一覧を返します。
func (s SelectionResult) Refs() []string {
	refs := make([]string, 0, len(s.Parts))
	for _, p := range s.Parts {
		refs = append(refs, p.Ref)
	}
	return refs
}
