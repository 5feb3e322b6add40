package lists

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

const loginPath = "/login"

type Server struct {
	Lists *Service
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Get("/wishlist", s.show(Wishlist))
	r.Post("/wishlist/{id}", s.toggle(Wishlist))
	r.Get("/compare", s.show(Compare))
	r.Post("/compare/{id}", s.toggle(Compare))
}

type listResp struct {
	Kind  Kind              `json:"kind"`
	IDs   Set               `json:"ids"`
	Items []catalog.Product `json:"items"`
}

type toggleResp struct {
	Kind  Kind `json:"kind"`
	ID    int  `json:"id"`
	Added bool `json:"added"`
	IDs   Set  `json:"ids"`
}

func (s *Server) show(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := kit.ClientFromContext(r.Context())
		if !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "missing client context", nil)
			return
		}

		set, err := s.Lists.Get(r.Context(), client, kind)
		if err != nil {
			s.serverError(w, r, err)
			return
		}

		items := []catalog.Product{}
		if s.Lists.Catalog != nil {
			c, err := s.Lists.Catalog.Load(r.Context())
			if err != nil && s.Log != nil {
				s.Log.Warn("resolving list against empty catalog", zap.Error(err))
			}
			items = Resolve(set, c)
		}

		kit.WriteJSON(w, http.StatusOK, listResp{Kind: kind, IDs: set, Items: items})
	}
}

func (s *Server) toggle(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := kit.ClientFromContext(r.Context())
		if !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "missing client context", nil)
			return
		}

		raw := chi.URLParam(r, "id")
		id, err := strconv.Atoi(raw)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": raw})
			return
		}

		set, err := s.apply(r.Context(), kind, client, id)
		switch {
		case errors.Is(err, ErrLoginRequired):
			kit.WriteError(w, r, http.StatusUnauthorized, "login required", map[string]any{"redirect": loginPath})
			return
		case errors.Is(err, ErrUnknownProduct):
			kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
			return
		case err != nil:
			s.serverError(w, r, err)
			return
		}

		kit.WriteJSON(w, http.StatusOK, toggleResp{Kind: kind, ID: id, Added: set.Contains(id), IDs: set})
	}
}

func (s *Server) apply(ctx context.Context, kind Kind, client string, id int) (Set, error) {
	if kind == Wishlist {
		return s.Lists.ToggleWishlist(ctx, client, id)
	}
	return s.Lists.ToggleCompare(ctx, client, id)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	if s.Log != nil {
		s.Log.Error("list operation failed", zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
