package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func product(id int, title string, cat Category, price string) Product {
	return Product{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Category:    cat,
		Price:       decimal.RequireFromString(price),
	}
}

func sample() []Product {
	return []Product{
		product(1, "iPhone 9", Smartphones, "549"),
		product(2, "Perfume Oil", Fragrances, "13"),
		product(3, "Brown Perfume", Fragrances, "40"),
		product(4, "Fog Scent", Fragrances, "50"),
		product(5, "Hyaluronic Serum", Skincare, "100"),
		product(6, "Tree Oil", Skincare, "12.99"),
		product(7, "MacBook Pro", Laptops, "1749"),
		product(8, "Wooden Bathroom Sink", HomeDecoration, "200"),
		product(9, "Leather Wallet", MensShirts, "75.5"),
		product(10, "Sunglasses Classic", Sunglasses, "0"),
	}
}

func ids(ps []Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_EmptyQueryMatchesNothing(t *testing.T) {
	for _, q := range []Query{{}, {Text: "   "}, {Text: "\t\n"}} {
		got := Filter(sample(), q)
		if got == nil || len(got) != 0 {
			t.Fatalf("query %+v: got %v, want empty non-nil", q, ids(got))
		}
	}
}

func TestFilter_PriceBands(t *testing.T) {
	cases := []struct {
		band PriceBand
		want []int
	}{
		{Band0To50, []int{2, 3, 4, 6, 10}},
		{Band50To100, []int{4, 5, 9}},
		{Band100To200, []int{5, 8}},
		{Band200Plus, []int{1, 7, 8}},
	}

	for _, tc := range cases {
		got := ids(Filter(sample(), Query{PriceBand: tc.band}))
		if !equalInts(got, tc.want) {
			t.Fatalf("band %s: got %v want %v", tc.band, got, tc.want)
		}
	}
}

func TestFilter_BoundaryPriceInBothBands(t *testing.T) {
	ps := []Product{product(1, "Edge", Tops, "50")}

	if len(Filter(ps, Query{PriceBand: Band0To50})) != 1 {
		t.Fatalf("50 missing from 0-50")
	}
	if len(Filter(ps, Query{PriceBand: Band50To100})) != 1 {
		t.Fatalf("50 missing from 50-100")
	}
	if len(Filter(ps, Query{PriceBand: Band100To200})) != 0 {
		t.Fatalf("50 leaked into 100-200")
	}
}

func TestFilter_TextIsCaseInsensitiveAndTrimmed(t *testing.T) {
	got := ids(Filter(sample(), Query{Text: "  PERFUME "}))
	if !equalInts(got, []int{2, 3}) {
		t.Fatalf("got %v", got)
	}

	// description matches too
	got = ids(Filter(sample(), Query{Text: "oil description"}))
	if !equalInts(got, []int{2, 6}) {
		t.Fatalf("got %v", got)
	}
}

func TestFilter_CriteriaAreConjunctive(t *testing.T) {
	got := ids(Filter(sample(), Query{Text: "perfume", Category: Fragrances, PriceBand: Band0To50}))
	if !equalInts(got, []int{2, 3}) {
		t.Fatalf("got %v", got)
	}

	got = ids(Filter(sample(), Query{Text: "perfume", Category: Skincare}))
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}

	got = ids(Filter(sample(), Query{Category: Fragrances, PriceBand: Band50To100}))
	if !equalInts(got, []int{4}) {
		t.Fatalf("got %v", got)
	}
}

func TestFilter_CategoryIsExact(t *testing.T) {
	if got := Filter(sample(), Query{Category: "Fragrances"}); len(got) != 0 {
		t.Fatalf("case-folded category matched: %v", ids(got))
	}
}

func TestParseCategoryAndBand(t *testing.T) {
	if c, err := ParseCategory(""); err != nil || c != "" {
		t.Fatalf("empty category: %q %v", c, err)
	}
	if c, err := ParseCategory("womens-bags"); err != nil || c != WomensBags {
		t.Fatalf("womens-bags: %q %v", c, err)
	}
	if _, err := ParseCategory("automotive"); err == nil {
		t.Fatalf("automotive accepted")
	}
	if b, err := ParsePriceBand("200+"); err != nil || b != Band200Plus {
		t.Fatalf("200+: %q %v", b, err)
	}
	if _, err := ParsePriceBand("0-49"); err == nil {
		t.Fatalf("0-49 accepted")
	}
}
