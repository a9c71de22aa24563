package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Harshitk-cp/leaddesk/internal/api/handlers"
	mw "github.com/Harshitk-cp/leaddesk/internal/api/middleware"
	"github.com/Harshitk-cp/leaddesk/internal/auth"
	"github.com/Harshitk-cp/leaddesk/internal/buildconfig"
	"github.com/Harshitk-cp/leaddesk/internal/config"
	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/metrics"
	"github.com/Harshitk-cp/leaddesk/internal/service"
	"github.com/Harshitk-cp/leaddesk/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP surface routes into.
type Deps struct {
	Tenants            *service.TenantService
	Leads              *service.LeadService
	Verifier           domain.TokenVerifier
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	DB                 Pinger
	Logger             *zap.Logger
	RateLimitRPS       float64
	RateLimitBurst     int
	DecompressMaxBytes int64
}

// App holds the router and the context that bounds its background work.
type App struct {
	Router *chi.Mux
	cancel context.CancelFunc
}

// NewApp wires stores, services and handlers on top of db using the process
// configuration.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	identity, err := auth.NewIdentity(config.JWTSecret(), config.TokenTTL())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Stores
	tenantStore := store.NewTenantStore(db)
	leadStore := store.NewLeadStore(db)
	activityStore := store.NewActivityStore(db)
	transactor := store.NewTransactor(db)

	// Services
	tenantSvc := service.NewTenantService(tenantStore, identity, m, logger)
	leadSvc := service.NewLeadService(leadStore, activityStore, transactor, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	router := NewRouter(ctx, Deps{
		Tenants:            tenantSvc,
		Leads:              leadSvc,
		Verifier:           identity,
		Metrics:            m,
		Gatherer:           registry,
		DB:                 db,
		Logger:             logger,
		RateLimitRPS:       config.RateLimitRPS(),
		RateLimitBurst:     config.RateLimitBurst(),
		DecompressMaxBytes: config.DecompressMaxBytes(),
	})

	return &App{Router: router, cancel: cancel}, nil
}

// Close stops background work started by the router.
func (app *App) Close() {
	app.cancel()
}

// NewRouter builds the HTTP surface. Background goroutines owned by the
// middleware stop when ctx is done.
func NewRouter(ctx context.Context, d Deps) *chi.Mux {
	tenantHandler := handlers.NewTenantHandler(d.Tenants, d.Logger)
	leadHandler := handlers.NewLeadHandler(d.Leads, d.Logger)
	decompressHandler := handlers.NewDecompressHandler(d.DecompressMaxBytes, d.Logger)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(d.Metrics))
	r.Use(mw.Logging(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(ctx, d.RateLimitRPS, d.RateLimitBurst))

	r.Get("/health", healthHandler(d.DB))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	// Stateless utility for the workflow-automation tool
	r.Post("/decompress", decompressHandler.Decompress)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", tenantHandler.Register)
			r.Post("/login", tenantHandler.Login)
			r.With(mw.BearerAuth(d.Verifier, d.Metrics)).Get("/me", tenantHandler.Me)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Use(mw.BearerAuth(d.Verifier, d.Metrics))

			r.Get("/", leadHandler.List)
			r.Post("/", leadHandler.Create)
			r.Get("/stats", leadHandler.Stats)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", leadHandler.Get)
				r.Put("/", leadHandler.Update)
				r.Delete("/", leadHandler.Delete)
				r.Patch("/status", leadHandler.ChangeStatus)
				r.Post("/activities", leadHandler.AddActivity)
			})
		})
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "build": buildconfig.Get()})
	}
}

// Ensure stores and identity satisfy interfaces at compile time.
var (
	_ domain.TenantStore   = (*store.TenantStore)(nil)
	_ domain.LeadStore     = (*store.LeadStore)(nil)
	_ domain.ActivityStore = (*store.ActivityStore)(nil)
	_ domain.Transactor    = (*store.Transactor)(nil)
	_ domain.TokenIssuer   = (*auth.Identity)(nil)
	_ domain.TokenVerifier = (*auth.Identity)(nil)
)
