package repository

import (
	"context"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
)

// DecisionRepository defines the interface for the decision audit log
type DecisionRepository interface {
	// Create persists one decision record
	Create(ctx context.Context, record *entity.DecisionRecord) error

	// ListRecent retrieves decision records newest-first with pagination
	ListRecent(ctx context.Context, limit, offset int) ([]*entity.DecisionRecord, int64, error)

	// CountByRoute counts persisted decisions for a route
	CountByRoute(ctx context.Context, route entity.Route) (int64, error)
}
