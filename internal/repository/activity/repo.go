// Package activity persists listings as Redis hashes under a shared FT
// index and answers the discovery queries the search usecase issues.
package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/classverse/discovery/internal/db"
	"github.com/classverse/discovery/internal/domain"
	domact "github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/geo"
	"github.com/classverse/discovery/internal/domain/search/predicate"
	"github.com/classverse/discovery/internal/domain/search/result"
)

// store is the consumer interface for listing persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	Count(ctx context.Context, index string, p predicate.Expression) (int64, error)
	FindNear(ctx context.Context, q *db.NearQuery) (*db.SearchResult, error)
}

// Repo implements the search and activity usecase repositories.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the listing FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, IndexDefinition()); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Put stores a listing, overwriting any previous version.
func (r *Repo) Put(ctx context.Context, a *domact.Activity) error {
	if err := r.store.HSet(ctx, Key(a.ID), activityToHash(a)); err != nil {
		return fmt.Errorf("store listing %s: %w", a.ID, err)
	}
	return nil
}

// Get returns a listing by ID.
func (r *Repo) Get(ctx context.Context, id string) (domact.Activity, error) {
	m, err := r.store.HGetAll(ctx, Key(id))
	if err != nil {
		return domact.Activity{}, fmt.Errorf("load listing %s: %w", id, err)
	}
	// HGETALL yields an empty map for a missing key.
	if len(m) == 0 {
		return domact.Activity{}, domain.ErrActivityNotFound
	}
	return activityFromHash(m), nil
}

// Delete removes a listing.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, Key(id)); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

// All returns every visible (active and public) listing. Used to rebuild
// the relevance corpus.
func (r *Repo) All(ctx context.Context) ([]domact.Activity, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	out := make([]domact.Activity, 0, len(maps))
	for _, m := range maps {
		if len(m) == 0 {
			continue
		}
		if m[predicate.FieldActive] != predicate.True || m[predicate.FieldPublic] != predicate.True {
			continue
		}
		out = append(out, activityFromHash(m))
	}
	return out, nil
}

// Find returns one page of listings matching the predicate, ordered by the
// given sort field.
func (r *Repo) Find(
	ctx context.Context, expr predicate.Expression,
	sortField string, sortDesc bool, offset, limit int,
) ([]domact.Activity, error) {
	q := &db.FindQuery{
		IndexName:    IndexName,
		Predicate:    expr,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: returnFields,
	}
	if sortField != "" {
		q.Sort = &db.Sort{Field: sortField, Desc: sortDesc}
	}

	res, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	out := make([]domact.Activity, 0, len(res.Entries))
	for _, e := range res.Entries {
		out = append(out, activityFromHash(e.Fields))
	}
	return out, nil
}

// Count returns the unbounded number of listings matching the predicate.
func (r *Repo) Count(ctx context.Context, expr predicate.Expression) (int64, error) {
	n, err := r.store.Count(ctx, IndexName, expr)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// FindNear returns the listings matching the predicate within maxDistanceKm
// of the origin, nearest first, capped at k candidates.
func (r *Repo) FindNear(
	ctx context.Context, expr predicate.Expression,
	origin domact.Point, maxDistanceKm float64, k int,
) ([]result.Hit, error) {
	q := &db.NearQuery{
		IndexName:     IndexName,
		Predicate:     expr,
		Origin:        geo.ToVector(origin.Latitude, origin.Longitude),
		K:             k,
		MaxDistanceKm: maxDistanceKm,
		ReturnFields:  returnFields,
	}

	res, err := r.store.FindNear(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find nearby listings: %w", err)
	}

	out := make([]result.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		d := e.DistanceKm
		out = append(out, result.Hit{
			Activity:   activityFromHash(e.Fields),
			DistanceKm: &d,
		})
	}
	return out, nil
}
