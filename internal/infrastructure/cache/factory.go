package cache

import (
	"fmt"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the idempotency store selected by configuration.
// "memory" suits single-instance deployments; "redis" shares state across
// instances.
func NewIdempotencyStore(cfg *config.Config) (shared.IdempotencyStore, error) {
	switch cfg.Fulfillment.IdempotencyBackend {
	case "memory":
		return NewInMemoryIdempotencyStore(), nil
	case "redis":
		return NewRedisIdempotencyStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown idempotency backend: %s", cfg.Fulfillment.IdempotencyBackend)
	}
}
