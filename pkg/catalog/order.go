package catalog

import (
	"sort"

	"github.com/maruel/natural"
)

// naturalLess は数値を考慮した辞書順で比較します。
// 自然順で等しい名前（"01" と "1" など）はバイト順で決着させ、全順序にします。
func naturalLess(a, b string) bool {
	if natural.Less(a, b) {
		return true
	}
	if natural.Less(b, a) {
		return false
	}
	return a < b
}

// sortNatural は names を自然順に並び替えます。
func sortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})
}

// filterNames は隠しエントリを除き、wantDir に一致する種類の名前だけを自然順で返します。
func filterNames(entries []Entry, wantDir bool) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir != wantDir || isHidden(e.Name) {
			continue
		}
		names = append(names, e.Name)
	}
	sortNatural(names)
	return names
}
