package hashing

import (
	"math/big"
)

// 予約済みスロットの位置です。カテゴリは FirstCategorySlot から順に 1 つずつ消費します。
const (
	ColorSlot          = 0
	SetSlot            = 1
	BackgroundSetSlot  = 2
	BackgroundFileSlot = 3
	FirstCategorySlot  = 4
)

// Slots はダイジェストから導いた非負整数の列です。要素は読み取り専用として扱います。
type Slots []*big.Int

// Index は pos 番目のスロットを n で割った余りを返します。
// pos が列の長さを超える場合は列の長さで折り返します。
// n は 1 以上でなければならず、空の一覧に対する呼び出しは呼び出し側で防ぎます。
func (s Slots) Index(pos, n int) int {
	if n <= 0 {
		panic("hashing: Index called with an empty range")
	}
	v := s[pos%len(s)]
	return int(new(big.Int).Mod(v, big.NewInt(int64(n))).Int64())
}

// Value は pos 番目のスロット値のコピーを返します。
func (s Slots) Value(pos int) *big.Int {
	return new(big.Int).Set(s[pos%len(s)])
}
