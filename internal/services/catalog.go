package services

import (
	"strings"

	"nexus-market/internal/domain"
)

const AllCategories = "All"

// ProductFilter narrows the catalog. Zero values match everything.
type ProductFilter struct {
	Category string  `form:"category"`
	MaxPrice float64 `form:"maxPrice"`
	Query    string  `form:"q"`
}

func (f ProductFilter) Match(p domain.Product) bool {
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func FilterProducts(products []domain.Product, f ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
