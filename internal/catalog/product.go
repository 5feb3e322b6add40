package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Category string

const (
	Smartphones     Category = "smartphones"
	Laptops         Category = "laptops"
	Fragrances      Category = "fragrances"
	Skincare        Category = "skincare"
	Groceries       Category = "groceries"
	HomeDecoration  Category = "home-decoration"
	Furniture       Category = "furniture"
	Tops            Category = "tops"
	WomensDresses   Category = "womens-dresses"
	WomensShoes     Category = "womens-shoes"
	MensShirts      Category = "mens-shirts"
	MensShoes       Category = "mens-shoes"
	MensWatches     Category = "mens-watches"
	WomensWatches   Category = "womens-watches"
	WomensBags      Category = "womens-bags"
	WomensJewellery Category = "womens-jewellery"
	Sunglasses      Category = "sunglasses"
)

// Categories is the filterable set, in display order.
var Categories = []Category{
	Smartphones, Laptops, Fragrances, Skincare, Groceries, HomeDecoration,
	Furniture, Tops, WomensDresses, WomensShoes, MensShirts, MensShoes,
	MensWatches, WomensWatches, WomensBags, WomensJewellery, Sunglasses,
}

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownPriceBand = errors.New("unknown price band")
)

// ParseCategory accepts "" as "no category".
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

type Product struct {
	ID                 int             `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           Category        `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage float64         `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
}

const galleryLen = 5

// Gallery is the detail-page image strip: the thumbnail followed by the
// first four images, with the thumbnail standing in for missing ones.
func Gallery(p Product) []string {
	out := make([]string, 0, galleryLen)
	out = append(out, p.Thumbnail)
	for i := 0; i < galleryLen-1; i++ {
		if i < len(p.Images) && p.Images[i] != "" {
			out = append(out, p.Images[i])
			continue
		}
		out = append(out, p.Thumbnail)
	}
	return out
}

// Catalog is an immutable, ordered product list with an id index.
type Catalog struct {
	products []Product
	byID     map[int]int
}

func NewCatalog(products []Product) Catalog {
	byID := make(map[int]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return Catalog{products: products, byID: byID}
}

func (c Catalog) Products() []Product { return c.products }

func (c Catalog) Len() int { return len(c.products) }

func (c Catalog) Get(id int) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}
