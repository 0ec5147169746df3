package venues

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// ListFilter is a ListQuery after malformed values have been dropped
type ListFilter struct {
	Query     string
	Category  Category
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	Sort      string
	Page      int
	Limit     int
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Fingerprint identifies the filter in cache keys
func (f ListFilter) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s|cat=%s", strings.ToLower(f.Query), f.Category)
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "|min=%s", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "|max=%s", f.MaxPrice.String())
	}
	if f.MinRating != nil {
		fmt.Fprintf(&b, "|rating=%g", *f.MinRating)
	}
	fmt.Fprintf(&b, "|sort=%s|page=%d|limit=%d", f.Sort, f.Page, f.Limit)
	return b.String()
}

func normalizeQuery(q ListQuery) ListFilter {
	f := ListFilter{
		Query: strings.TrimSpace(q.Q),
		Sort:  strings.ToLower(strings.TrimSpace(q.Sort)),
	}
	switch f.Sort {
	case "price_asc", "price_desc", "rating", "newest":
	default:
		f.Sort = ""
	}
	f.Page, _ = strconv.Atoi(strings.TrimSpace(q.Page))
	f.Limit, _ = strconv.Atoi(strings.TrimSpace(q.Limit))

	if c := Category(strings.ToLower(strings.TrimSpace(q.Category))); c.IsValid() {
		f.Category = c
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(q.MinPrice)); err == nil && !v.IsNegative() {
		f.MinPrice = &v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(q.MaxPrice)); err == nil && !v.IsNegative() {
		f.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(q.MinRating), 64); err == nil && v >= 0 && v <= 5 {
		f.MinRating = &v
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	return f
}

func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price_per_hour ASC, name ASC"
	case "price_desc":
		return "price_per_hour DESC, name ASC"
	case "rating":
		return "rating DESC, name ASC"
	case "newest":
		return "created_at DESC"
	default:
		return "name ASC"
	}
}

func numPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func categoryLabel(c Category) string {
	words := strings.Fields(string(c))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
