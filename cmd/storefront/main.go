package main

import (
	"context"
	"database/sql"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/database"
	"Storefront/internal/lists"
	"Storefront/internal/storage"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

func main() {
	service := "storefront"

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLoggerWith(service, kit.LogOptions{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *sql.DB
	if cfg.UsesPostgres() {
		db, err = database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database failed", zap.Error(err))
		}
		defer db.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal("migrations failed", zap.Error(err))
		}
	}

	st, closeStorage, err := openStorage(cfg)
	if err != nil {
		log.Fatal("open client storage failed", zap.Error(err))
	}
	defer closeStorage()

	users, closeUsers, err := openUsers(cfg, db)
	if err != nil {
		log.Fatal("open user directory failed", zap.Error(err))
	}
	defer closeUsers()

	store := catalog.NewStore(catalogSource(cfg, db), cfg.CatalogLoadTimeout)
	store.Log = log

	sessions := auth.NewSessions(st)
	gate := &auth.Gate{
		Users:    users,
		Sessions: sessions,
		Events:   auth.NewBroadcaster(),
		Log:      log,
	}

	deps := storefront.Deps{
		Catalog: store,
		Gate:    gate,
		JWT:     auth.NewTokenMaker(cfg.JWTSecret),
		Lists: &lists.Service{
			Storage:  st,
			Sessions: sessions,
			Catalog:  store,
		},
		Storage:         st,
		PageSize:        cfg.PageSize,
		TokenTTL:        cfg.TokenTTL,
		LoginLimiter:    kit.NewIPRateLimiter(cfg.LoginLimit, cfg.LimitWindow),
		RegisterLimiter: kit.NewIPRateLimiter(cfg.RegisterLimit, cfg.LimitWindow),
		CookieSecret:    []byte(cfg.CookieSecret),
		CookieSecure:    cfg.CookieSecure,
	}

	reg := prometheus.NewRegistry()
	h, err := storefront.NewHandler(ctx, deps, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,
	})
	if err != nil {
		log.Fatal("init storefront handler failed", zap.Error(err))
	}

	log.Info("starting",
		zap.String("catalog", store.Source.Name()),
		zap.String("users", cfg.UsersBackend),
		zap.Bool("durable_storage", cfg.StoragePath != ""),
	)

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	if cfg.StoragePath == "" {
		return storage.NewMemStorage(), func() {}, nil
	}
	b, err := storage.OpenBolt(cfg.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return b, func() { _ = b.Close() }, nil
}

func openUsers(cfg *config.Config, db *sql.DB) (auth.UserStore, func(), error) {
	switch cfg.UsersBackend {
	case config.UsersSQLite:
		s, err := auth.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.UsersPostgres:
		return auth.NewPostgresStore(db), func() {}, nil
	default:
		return auth.NewFileStore(cfg.UsersPath), func() {}, nil
	}
}

func catalogSource(cfg *config.Config, db *sql.DB) catalog.Source {
	switch {
	case cfg.Catalog == config.CatalogPostgres:
		return catalog.NewPostgresSource(db)
	case strings.HasPrefix(cfg.Catalog, "http://"), strings.HasPrefix(cfg.Catalog, "https://"):
		return catalog.NewHTTPSource(cfg.Catalog)
	default:
		return catalog.FileSource{Path: cfg.Catalog}
	}
}
