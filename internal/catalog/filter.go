package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PriceBand string

const (
	Band0To50    PriceBand = "0-50"
	Band50To100  PriceBand = "50-100"
	Band100To200 PriceBand = "100-200"
	Band200Plus  PriceBand = "200+"
)

var PriceBands = []PriceBand{Band0To50, Band50To100, Band100To200, Band200Plus}

var (
	fifty      = decimal.NewFromInt(50)
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// ParsePriceBand accepts "" as "no band".
func ParsePriceBand(s string) (PriceBand, error) {
	if s == "" {
		return "", nil
	}
	for _, b := range PriceBands {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPriceBand, s)
}

// Contains reports whether price falls in the band. Bounds are inclusive on
// both ends, so 50, 100 and 200 each belong to two adjacent bands. An
// unrecognised band places no constraint.
func (b PriceBand) Contains(price decimal.Decimal) bool {
	switch b {
	case Band0To50:
		return price.LessThanOrEqual(fifty)
	case Band50To100:
		return price.GreaterThanOrEqual(fifty) && price.LessThanOrEqual(hundred)
	case Band100To200:
		return price.GreaterThanOrEqual(hundred) && price.LessThanOrEqual(twoHundred)
	case Band200Plus:
		return price.GreaterThanOrEqual(twoHundred)
	default:
		return true
	}
}

type Query struct {
	Text      string
	Category  Category
	PriceBand PriceBand
}

// Active is false when no criterion is set. Whitespace-only text counts as
// unset.
func (q Query) Active() bool {
	return strings.TrimSpace(q.Text) != "" || q.Category != "" || q.PriceBand != ""
}

// Filter returns the products matching every set criterion, in catalog
// order. An inactive query matches nothing: "not searched yet" is not the
// same as "everything".
func Filter(products []Product, q Query) []Product {
	out := []Product{}
	if !q.Active() {
		return out
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.PriceBand != "" && !q.PriceBand.Contains(p.Price) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Title), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			continue
		}
		out = append(out, p)
	}
	return out
}
