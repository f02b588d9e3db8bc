package activity

import (
	"context"

	domact "github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// Repository defines the storage contract for listing lifecycle and feeds.
type Repository interface {
	Put(ctx context.Context, a *domact.Activity) error
	Get(ctx context.Context, id string) (domact.Activity, error)
	Delete(ctx context.Context, id string) error

	Find(
		ctx context.Context, expr predicate.Expression,
		sortField string, sortDesc bool, offset, limit int,
	) ([]domact.Activity, error)

	Count(ctx context.Context, expr predicate.Expression) (int64, error)
}
