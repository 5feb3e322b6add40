// Package lists holds the per-client wishlist and compare sets.
package lists

import "Storefront/internal/catalog"

// Set is an ordered collection of product ids without duplicates.
type Set []int

func (s Set) Contains(id int) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a new set with id removed if present, else appended.
func Toggle(s Set, id int) Set {
	out := make(Set, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// normalize drops duplicates from a persisted set, keeping first
// occurrences.
func normalize(s Set) Set {
	seen := make(map[int]struct{}, len(s))
	out := make(Set, 0, len(s))
	for _, v := range s {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Resolve maps ids to products. Ids missing from the catalog are skipped.
func Resolve(s Set, c catalog.Catalog) []catalog.Product {
	out := make([]catalog.Product, 0, len(s))
	for _, id := range s {
		if p, ok := c.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}
