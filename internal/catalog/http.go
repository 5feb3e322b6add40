package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

// Marks describes how one client relates to a product.
type Marks struct {
	LoggedIn   bool `json:"logged_in"`
	InWishlist bool `json:"in_wishlist"`
	InCompare  bool `json:"in_compare"`
}

type Marker interface {
	Marks(ctx context.Context, client string, id int) (Marks, error)
}

type Server struct {
	Store    *Store
	Marker   Marker
	Log      *zap.Logger
	PageSize int
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register adds the catalog endpoints to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/search", s.search)
	r.Get("/filters", s.filters)
}

type pageResp struct {
	Items     []Product `json:"items"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
	PageCount int       `json:"page_count"`
	Total     int       `json:"total"`
}

type searchResp struct {
	Active bool `json:"active"`
	pageResp
}

type detailResp struct {
	Product Product  `json:"product"`
	Gallery []string `json:"gallery"`
	Marks
}

type filtersResp struct {
	Categories []Category  `json:"categories"`
	PriceBands []PriceBand `json:"price_bands"`
}

// catalog degrades to an empty list when the source cannot be loaded; the
// next request tries again.
func (s *Server) catalog(ctx context.Context) Catalog {
	c, err := s.Store.Load(ctx)
	if err != nil && s.Log != nil {
		s.Log.Error("serving empty catalog", zap.Error(err))
	}
	return c
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	page, size, ok := s.paging(w, r)
	if !ok {
		return
	}

	c := s.catalog(r.Context())
	kit.WriteJSON(w, http.StatusOK, newPage(c.Products(), page, size))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	page, size, ok := s.paging(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	cat, err := ParseCategory(q.Get("category"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"allowed": Categories})
		return
	}
	band, err := ParsePriceBand(q.Get("price"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"allowed": PriceBands})
		return
	}

	query := Query{Text: q.Get("q"), Category: cat, PriceBand: band}
	matched := Filter(s.catalog(r.Context()).Products(), query)

	kit.WriteJSON(w, http.StatusOK, searchResp{
		Active:   query.Active(),
		pageResp: newPage(matched, page, size),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": raw})
		return
	}

	p, found := s.catalog(r.Context()).Get(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	resp := detailResp{Product: p, Gallery: Gallery(p)}
	if client, ok := kit.ClientFromContext(r.Context()); ok && s.Marker != nil {
		m, err := s.Marker.Marks(r.Context(), client, id)
		if err != nil {
			if s.Log != nil {
				s.Log.Warn("product marks failed", zap.Error(err), zap.Int("id", id))
			}
		} else {
			resp.Marks = m
		}
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) filters(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, filtersResp{Categories: Categories, PriceBands: PriceBands})
}

var errBadPaging = errors.New("bad paging")

func (s *Server) paging(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	size = s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	page, err := intParam(r, "page", 1)
	if err != nil || page < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, "page must be a positive integer", nil)
		return 0, 0, false
	}
	size, err = intParam(r, "size", size)
	if err != nil || size < 1 || size > MaxPageSize {
		kit.WriteError(w, r, http.StatusBadRequest, "size out of range", map[string]any{"max": MaxPageSize})
		return 0, 0, false
	}
	return page, size, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errBadPaging
	}
	return n, nil
}

func newPage(items []Product, page, size int) pageResp {
	return pageResp{
		Items:     Page(items, page, size),
		Page:      page,
		PageSize:  size,
		PageCount: PageCount(len(items), size),
		Total:     len(items),
	}
}
