package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/seaboard-ops/seaboard/internal/documents"
	"github.com/seaboard-ops/seaboard/internal/purchasing"
	"github.com/seaboard-ops/seaboard/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Notifier   purchasing.NotifierPort
	JobHandler *jobs.Handler
}

// NewRouter constructs the chi.Router with Seaboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/purchase-orders", func(r chi.Router) {
		docsSvc := documents.MountRoutes(r, params.Pool, params.Logger)
		purchasing.MountRoutes(r, params.Pool, params.Redis, params.Logger,
			params.Config.Variant(), docsSvc, params.Notifier)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
