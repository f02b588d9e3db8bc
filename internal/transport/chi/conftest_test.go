package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	chiRouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/classverse/discovery/internal/domain"
	"github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/predicate"
	"github.com/classverse/discovery/internal/domain/search/result"
	"github.com/classverse/discovery/internal/relevance"
	activityuc "github.com/classverse/discovery/internal/usecase/activity"
	searchuc "github.com/classverse/discovery/internal/usecase/search"
)

// fakeRepo backs both usecase contracts for handler tests.
type fakeRepo struct {
	stored map[string]activity.Activity

	findFn     func(ctx context.Context, expr predicate.Expression, sortField string, sortDesc bool, offset, limit int) ([]activity.Activity, error)
	countFn    func(ctx context.Context, expr predicate.Expression) (int64, error)
	findNearFn func(ctx context.Context, expr predicate.Expression, origin activity.Point, maxDistanceKm float64, k int) ([]result.Hit, error)
	allFn      func(ctx context.Context) ([]activity.Activity, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: make(map[string]activity.Activity)}
}

func (f *fakeRepo) Put(_ context.Context, a *activity.Activity) error {
	f.stored[a.ID] = *a
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (activity.Activity, error) {
	a, ok := f.stored[id]
	if !ok {
		return activity.Activity{}, domain.ErrActivityNotFound
	}
	return a, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.stored, id)
	return nil
}

func (f *fakeRepo) Find(
	ctx context.Context, expr predicate.Expression,
	sortField string, sortDesc bool, offset, limit int,
) ([]activity.Activity, error) {
	if f.findFn != nil {
		return f.findFn(ctx, expr, sortField, sortDesc, offset, limit)
	}
	return nil, nil
}

func (f *fakeRepo) Count(ctx context.Context, expr predicate.Expression) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, expr)
	}
	return 0, nil
}

func (f *fakeRepo) FindNear(
	ctx context.Context, expr predicate.Expression,
	origin activity.Point, maxDistanceKm float64, k int,
) ([]result.Hit, error) {
	if f.findNearFn != nil {
		return f.findNearFn(ctx, expr, origin, maxDistanceKm, k)
	}
	return nil, nil
}

func (f *fakeRepo) All(ctx context.Context) ([]activity.Activity, error) {
	if f.allFn != nil {
		return f.allFn(ctx)
	}
	return nil, nil
}

// newTestHandler assembles a router with real services over the fake repo.
// Auth is disabled so role gates pass.
func newTestHandler(repo *fakeRepo) http.Handler {
	activitySvc := activityuc.New(repo)
	searchSvc := searchuc.New(repo, relevance.NewScorer())
	server := NewServer(activitySvc, searchSvc, nil, zap.NewNop())

	r := chiRouter.NewRouter()
	r.Use(BearerAuthMiddleware(nil))
	server.Register(r)
	return r
}

func doRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func testListing(id, title string) activity.Activity {
	return activity.Activity{
		ID:      id,
		TutorID: "t1",
		Title:   title,
		Subject: "music",
		Pricing: activity.Pricing{Price: 1200, Currency: "INR"},
		Engagement: activity.Engagement{
			RatingAverage: 4.5,
			EnrolledCount: 30,
		},
		Active:    true,
		Public:    true,
		CreatedAt: time.Unix(1_700_000_000, 0).UTC(),
		UpdatedAt: time.Unix(1_700_000_100, 0).UTC(),
	}
}
