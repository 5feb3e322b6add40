// Package storefront assembles the catalog, auth and list handlers into the
// single storefront HTTP service.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/internal/lists"
	"Storefront/internal/storage"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog *catalog.Store
	Gate    *auth.Gate
	JWT     *auth.TokenMaker
	Lists   *lists.Service
	Storage storage.Storage

	PageSize int
	TokenTTL time.Duration

	LoginLimiter    *kit.IPRateLimiter
	RegisterLimiter *kit.IPRateLimiter

	CookieSecret []byte
	CookieSecure bool
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

const (
	loadOK    = "ok"
	loadError = "error"
)

// NewHandler builds the router. ctx bounds the background session observer.
func NewHandler(ctx context.Context, deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(ctx, r, deps, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	var marker catalog.Marker
	if deps.Lists != nil {
		marker = deps.Lists
	}
	cat := &catalog.Server{
		Store:    deps.Catalog,
		Marker:   marker,
		Log:      httpDeps.Log,
		PageSize: deps.PageSize,
	}
	au := &auth.Server{
		Gate:            deps.Gate,
		JWT:             deps.JWT,
		Log:             httpDeps.Log,
		TokenTTL:        deps.TokenTTL,
		LoginLimiter:    deps.LoginLimiter,
		RegisterLimiter: deps.RegisterLimiter,
	}
	ls := &lists.Server{Lists: deps.Lists, Log: httpDeps.Log}

	r.Group(func(cr chi.Router) {
		cr.Use(kit.ClientContext(kit.ClientOptions{
			Secret: deps.CookieSecret,
			Secure: deps.CookieSecure,
		}, httpDeps.Log))

		cat.Register(cr)
		au.Register(cr)
		ls.Register(cr)
	})

	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(ctx context.Context, r *chi.Mux, deps Deps, httpDeps HTTPDeps) {
	if httpDeps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(httpDeps.Registry)
	r.Use(metrics.Middleware(httpDeps.Service, kit.ChiRoutePatternOrPath))

	if deps.Catalog != nil {
		deps.Catalog.OnLoad = func(err error) {
			result := loadOK
			if err != nil {
				result = loadError
			}
			metrics.CatalogLoads.WithLabelValues(result).Inc()
		}
	}
	if deps.Gate != nil && deps.Gate.Events != nil {
		deps.Gate.Events.Observe(ctx, func(e auth.Event) {
			metrics.SessionEvents.WithLabelValues(string(e.Kind)).Inc()
		})
	}

	if !httpDeps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(httpDeps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(httpDeps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type readyResp struct {
	Status  string `json:"status"`
	Catalog string `json:"catalog"`
}

// readyz fails only when client state or the user directory is unreachable.
// An unloaded catalog is reported but does not make the service unready.
func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := probe(ctx, deps.Storage.Ping); err != nil {
			if log != nil {
				log.Warn("readyz failed: storage", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "storage not ready", nil)
			return
		}

		if err := probe(ctx, deps.Gate.Users.Ping); err != nil {
			if log != nil {
				log.Warn("readyz failed: users", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "users not ready", nil)
			return
		}

		status := "unavailable"
		if _, err := deps.Catalog.Load(ctx); err == nil {
			status = "loaded"
		}
		kit.WriteJSON(w, http.StatusOK, readyResp{Status: "ok", Catalog: status})
	}
}

func probe(ctx context.Context, ping func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()
	return ping(cctx)
}
