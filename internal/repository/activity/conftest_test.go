package activity

import (
	"context"
	"testing"
	"time"

	"github.com/classverse/discovery/internal/db"
	domact "github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	findFn         func(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	countFn        func(ctx context.Context, index string, p predicate.Expression) (int64, error)
	findNearFn     func(ctx context.Context, q *db.NearQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, index string, p predicate.Expression) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, index, p)
	}
	return 0, nil
}

func (m *mockStore) FindNear(ctx context.Context, q *db.NearQuery) (*db.SearchResult, error) {
	if m.findNearFn != nil {
		return m.findNearFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

// testActivity builds a fully-populated listing for round-trip assertions.
func testActivity() domact.Activity {
	return domact.Activity{
		ID:           "a1",
		TutorID:      "t1",
		TutorName:    "Asha Rao",
		Title:        "Guitar for Beginners",
		Description:  "Acoustic guitar basics",
		Subject:      "music",
		ActivityType: "course",
		Mode:         "offline",
		Difficulty:   "beginner",
		Location: domact.Location{
			City:        "pune",
			State:       "maharashtra",
			Coordinates: &domact.Point{Latitude: 18.52, Longitude: 73.85},
		},
		Pricing: domact.Pricing{
			Price:                1500,
			Currency:             "INR",
			PriceType:            "monthly",
			InstallmentAvailable: true,
			FreeTrialDays:        7,
		},
		AgeGroup: domact.AgeGroup{MinAge: 8, MaxAge: 15},
		Duration: domact.Duration{TotalMinutes: 2400},
		Schedule: domact.Schedule{
			SessionDays:        []string{"saturday", "sunday"},
			FlexibleScheduling: true,
		},
		Engagement: domact.Engagement{
			RatingAverage: 4.6,
			TotalReviews:  31,
			EnrolledCount: 120,
			Featured:      true,
		},
		DemoAvailable: true,
		Tags:          []string{"guitar", "acoustic"},
		Active:        true,
		Public:        true,
		CreatedAt:     time.Unix(1_700_000_000, 0).UTC(),
		UpdatedAt:     time.Unix(1_700_000_100, 0).UTC(),
	}
}
