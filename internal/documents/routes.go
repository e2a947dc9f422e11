package documents

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MountRoutes wires document routes onto the purchase-orders subtree and
// returns the service so the workflow core can consume the uploaded set.
func MountRoutes(r chi.Router, pool *pgxpool.Pool, logger *slog.Logger) *Service {
	repo := NewRepository(pool)
	svc := NewService(repo)
	NewHandler(logger, svc).MountRoutes(r)
	return svc
}
