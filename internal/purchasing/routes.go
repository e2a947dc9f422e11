package purchasing

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/seaboard-ops/seaboard/internal/shared"
)

const orderCacheTTL = 5 * time.Minute

// MountRoutes wires the purchasing workflow onto the purchase-orders
// subtree. The notifier and redis client may be nil; the service degrades
// gracefully.
func MountRoutes(
	r chi.Router,
	pool *pgxpool.Pool,
	rdb *redis.Client,
	logger *slog.Logger,
	variant Variant,
	documents DocumentsPort,
	notifier NotifierPort,
) *Service {
	repo := NewRepository(pool)
	engine := NewEngine(WorkflowFor(variant))
	audit := shared.NewAuditLogger(pool)
	idem := shared.NewIdempotencyStore(pool)

	var cache *Cache
	if rdb != nil {
		cache = NewCache(rdb, orderCacheTTL)
	}

	svc := NewService(repo, documents, engine, audit, notifier, idem, cache, logger)
	NewHandler(logger, svc).MountRoutes(r)
	return svc
}
