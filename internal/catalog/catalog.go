package catalog

import (
	"strings"

	"golang.org/x/exp/slices"

	"alphaDash/internal/models"
)

// Sort keys accepted by Apply.
const (
	SortRating    = "rating"
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Any matches every category or vendor.
const Any = "all"

// Filter narrows the catalog. Zero values match everything; MaxPrice 0 means
// no ceiling. An empty Sort falls back to SortRating.
type Filter struct {
	Search   string
	Category string
	VendorID string
	MinPrice float64
	MaxPrice float64
	Sort     string
}

// Apply filters and sorts snacks without touching the input slice. Unavailable
// snacks never pass. Sorting is stable and an unknown key keeps source order.
func Apply(snacks []models.Snack, f Filter) []models.Snack {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Snack, 0, len(snacks))
	for _, s := range snacks {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) {
			continue
		}
		if !matchesAny(f.Category, s.Category) {
			continue
		}
		if !matchesAny(f.VendorID, s.VendorID) {
			continue
		}
		if s.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && s.Price > f.MaxPrice {
			continue
		}
		if !s.IsAvailable {
			continue
		}
		out = append(out, s)
	}

	sortKey := f.Sort
	if sortKey == "" {
		sortKey = SortRating
	}
	if cmp := comparator(sortKey); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func Categories(snacks []models.Snack) []string {
	seen := make(map[string]struct{}, len(snacks))
	out := []string{}
	for _, s := range snacks {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}

func matchesAny(want, got string) bool {
	return want == "" || want == Any || want == got
}

func comparator(key string) func(a, b models.Snack) int {
	switch key {
	case SortPriceLow:
		return func(a, b models.Snack) int { return compareFloat(a.Price, b.Price) }
	case SortPriceHigh:
		return func(a, b models.Snack) int { return compareFloat(b.Price, a.Price) }
	case SortRating:
		return func(a, b models.Snack) int { return compareFloat(b.Rating, a.Rating) }
	case SortNewest:
		return func(a, b models.Snack) int { return b.CreatedAt.OrZero().Compare(a.CreatedAt.OrZero()) }
	}
	return nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
