package search

import (
	"context"

	"github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/predicate"
	"github.com/classverse/discovery/internal/domain/search/result"
)

// Repository defines the storage contract for discovery queries.
type Repository interface {
	Find(
		ctx context.Context, expr predicate.Expression,
		sortField string, sortDesc bool, offset, limit int,
	) ([]activity.Activity, error)

	Count(ctx context.Context, expr predicate.Expression) (int64, error)

	FindNear(
		ctx context.Context, expr predicate.Expression,
		origin activity.Point, maxDistanceKm float64, k int,
	) ([]result.Hit, error)

	All(ctx context.Context) ([]activity.Activity, error)
}
