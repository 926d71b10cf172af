package catalog

import (
	"context"
	"sort"
	"strings"

	"ministore/core/utils"
)

type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortPriceAsc   SortOrder = "price-asc"
	SortPriceDesc  SortOrder = "price-desc"
	SortPopularity SortOrder = "popularity"
)

const (
	StorefrontPerPage = 20
	AdminPerPage      = 30
)

type Query struct {
	// Search matches the product name, case-insensitively.
	Search   string
	Category Category
	Sort     SortOrder
	Page     int
	PerPage  int
}

func (s *Store) Query(ctx context.Context, q Query) (utils.Page[Product], error) {
	items, err := s.List(ctx)
	if err != nil {
		return utils.Page[Product]{}, err
	}
	return Filter(items, q), nil
}

// Filter applies q to items without touching storage. "newest" keeps
// catalog order.
func Filter(items []Product, q Query) utils.Page[Product] {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortPopularity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = StorefrontPerPage
	}
	return utils.Paginate(out, q.Page, perPage)
}

func ParseSort(s string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortPopularity:
		return SortPopularity
	}
	return SortNewest
}
