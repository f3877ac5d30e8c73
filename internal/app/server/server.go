package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/catalog"
	"folha/internal/domain/entry"
	"folha/internal/domain/review"
	"folha/internal/domain/sheet"
	"folha/internal/platform/cache"
	"folha/internal/platform/config"
	"folha/internal/platform/db"
	"folha/internal/platform/metrics"
	"folha/internal/reports"
	auditloghandler "folha/internal/transport/http/handlers/auditlog"
	authhandler "folha/internal/transport/http/handlers/auth"
	cataloghandler "folha/internal/transport/http/handlers/catalog"
	entrieshandler "folha/internal/transport/http/handlers/entries"
	reportshandler "folha/internal/transport/http/handlers/reports"
	reviewhandler "folha/internal/transport/http/handlers/review"
	sheetshandler "folha/internal/transport/http/handlers/sheets"
	"folha/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New validates the config, connects, migrates and seeds, and wires the
// router. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &App{Config: cfg, DB: pool, Router: NewRouter(cfg, pool)}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	app, err := New(context.Background(), config.Load())
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("production sheet server listening on %s", app.Config.Addr)
	if err := http.ListenAndServe(app.Config.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// NewRouter wires the full application graph onto a chi router.
func NewRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	queryCache := cache.New(cfg.CacheTTL)
	collector := metrics.New()
	auditLog := audit.New(pool)

	catalogStore := catalog.NewStore(pool, queryCache)
	catalogService := catalog.NewBusinessService(catalogStore, auditLog)

	reviewStore := review.NewStore(pool, queryCache)
	sheetService := sheet.NewService(pool, queryCache, auditLog, reviewStore)
	reviewService := review.NewService(reviewStore, sheetService, auditLog)

	entryStore := entry.NewStore(pool, queryCache)
	entryService := entry.NewService(entryStore, catalogStore, sheetService, auditLog)

	reportService := reports.NewService(catalogStore, entryStore, sheetService)
	authService := auth.NewService(pool, catalogStore)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, cfg.JWTSecret).RegisterRoutes(r)
		cataloghandler.NewHandler(catalogService).RegisterRoutes(r)
		sheetshandler.NewHandler(sheetService).RegisterRoutes(r)
		entrieshandler.NewHandler(entryService).RegisterRoutes(r)
		reviewhandler.NewHandler(reviewService).RegisterRoutes(r)
		auditloghandler.NewHandler(auditLog).RegisterRoutes(r)
		reportshandler.NewHandler(reportService).RegisterRoutes(r)
	})

	return router
}
