package catalog

import (
	"sort"
	"strings"

	"brandmatch-service/internal/brandmatch/model"
)

// бренды-заглушки, которые не индексируются
var nullBrands = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
}

// Index: brand → строки справочника в порядке загрузки.
type Index struct {
	byBrand map[string][]*model.CatalogRow
}

// BrandKey: ключ индекса: lower(trim(brand)).
func BrandKey(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

// BuildIndex строит индекс по снимку строк. Указатели ведут в rows,
// поэтому rows после построения не меняются.
func BuildIndex(rows []model.CatalogRow) *Index {
	idx := &Index{byBrand: make(map[string][]*model.CatalogRow)}
	for i := range rows {
		k := BrandKey(rows[i].Brand)
		if k == "" {
			continue
		}
		if _, skip := nullBrands[k]; skip {
			continue
		}
		idx.byBrand[k] = append(idx.byBrand[k], &rows[i])
	}
	return idx
}

// Lookup: кандидаты бренда; nil, если бренда нет.
func (idx *Index) Lookup(brand string) []*model.CatalogRow {
	if idx == nil {
		return nil
	}
	return idx.byBrand[BrandKey(brand)]
}

// Has: есть ли бренд в индексе.
func (idx *Index) Has(brand string) bool {
	return len(idx.Lookup(brand)) > 0
}

// Len: число брендов.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byBrand)
}

// Brands: ключи индекса, отсортированные.
func (idx *Index) Brands() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, 0, len(idx.byBrand))
	for k := range idx.byBrand {
		out = append(out, k)
	}
	sort.Strings(out) // для детерминированного порядка
	return out
}
