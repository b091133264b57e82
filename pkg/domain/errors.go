package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration はハッシュ分割数などの設定が使えない値のときに返されます。
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrCatalogEmpty は必要なカタログの一覧が空だったときに返されます。
	ErrCatalogEmpty = errors.New("catalog empty")
)

// CatalogEmptyError は空だったカタログのパスを保持します。
// errors.Is(err, ErrCatalogEmpty) で判定できます。
type CatalogEmptyError struct {
	Path string
	What string
}

func (e *CatalogEmptyError) Error() string {
	return fmt.Sprintf("catalog empty: %q has no %s", e.Path, e.What)
}

func (e *CatalogEmptyError) Unwrap() error {
	return ErrCatalogEmpty
}

// NewCatalogEmptyError は CatalogEmptyError を生成します。
func NewCatalogEmptyError(path, what string) error {
	return &CatalogEmptyError{Path: path, What: what}
}
