// Package db defines the document-store contract the discovery engine is
// built against: hash storage plus find/count/aggregate-near search over a
// pre-provisioned FT index.
package db

import (
	"context"
	"time"

	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based document storage.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Sort is a single-field sort instruction.
type Sort struct {
	Field string
	Desc  bool
}

// FindQuery is the input for a filtered, sorted, paginated search.
type FindQuery struct {
	IndexName    string
	Predicate    predicate.Expression
	Sort         *Sort
	Offset       int
	Limit        int
	ReturnFields []string
}

// NearQuery is the input for a distance-bounded proximity search.
// K bounds how many nearest candidates are materialized; entries beyond
// MaxDistanceKm are discarded after score conversion.
type NearQuery struct {
	IndexName     string
	Predicate     predicate.Expression
	Origin        []float32
	K             int
	MaxDistanceKm float64
	ReturnFields  []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int64
	Entries []SearchEntry
}

// SearchEntry is a single document hit. DistanceKm is populated only by
// proximity search.
type SearchEntry struct {
	Key        string
	DistanceKm float64
	Fields     map[string]string
}

// Searcher provides search operations over the listing index.
type Searcher interface {
	// Find runs the predicate with sort and pagination applied by the store.
	Find(ctx context.Context, q *FindQuery) (*SearchResult, error)
	// Count returns the unbounded number of documents matching the predicate.
	Count(ctx context.Context, index string, p predicate.Expression) (int64, error)
	// FindNear returns the K nearest candidates matching the predicate,
	// ordered by ascending distance and bounded by MaxDistanceKm.
	FindNear(ctx context.Context, q *NearQuery) (*SearchResult, error)
}
