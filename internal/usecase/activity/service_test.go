package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classverse/discovery/internal/domain"
	domact "github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// --- Mocks ---

type mockRepo struct {
	stored      map[string]domact.Activity
	putErr      error
	findResults []domact.Activity
	findErr     error
	count       int64

	lastSortField string
	lastSortDesc  bool
	lastOffset    int
	lastLimit     int
	lastExpr      predicate.Expression
}

func newMockRepo() *mockRepo {
	return &mockRepo{stored: make(map[string]domact.Activity)}
}

func (m *mockRepo) Put(_ context.Context, a *domact.Activity) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.stored[a.ID] = *a
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domact.Activity, error) {
	a, ok := m.stored[id]
	if !ok {
		return domact.Activity{}, domain.ErrActivityNotFound
	}
	return a, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	delete(m.stored, id)
	return nil
}

func (m *mockRepo) Find(
	_ context.Context, expr predicate.Expression,
	sortField string, sortDesc bool, offset, limit int,
) ([]domact.Activity, error) {
	m.lastExpr = expr
	m.lastSortField = sortField
	m.lastSortDesc = sortDesc
	m.lastOffset = offset
	m.lastLimit = limit
	return m.findResults, m.findErr
}

func (m *mockRepo) Count(_ context.Context, expr predicate.Expression) (int64, error) {
	return m.count, nil
}

func newTestService(repo *mockRepo) *Service {
	svc := New(repo)
	svc.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return svc
}

func draft() domact.Activity {
	return domact.Activity{
		TutorID: "t1",
		Title:   "Guitar for Beginners",
		Subject: "Music",
		Mode:    "Online",
		Public:  true,
	}
}

// --- Create ---

func TestCreate_AssignsIdentityAndNormalizes(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	in := draft()
	created, err := svc.Create(context.Background(), &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if created.Subject != "music" || created.Mode != "online" {
		t.Errorf("facets not normalized: %+v", created)
	}
	if !created.Active {
		t.Error("new listings start active")
	}
	if !created.CreatedAt.Equal(time.Unix(1_700_000_000, 0).UTC()) {
		t.Errorf("unexpected created_at %v", created.CreatedAt)
	}
	if _, ok := repo.stored[created.ID]; !ok {
		t.Error("listing not persisted")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(a *domact.Activity)
	}{
		{"missing title", func(a *domact.Activity) { a.Title = " " }},
		{"missing subject", func(a *domact.Activity) { a.Subject = "" }},
		{"missing tutor", func(a *domact.Activity) { a.TutorID = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := draft()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), &in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

// --- Lifecycle ---

func TestSetActive_FlipsAndStamps(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	in := draft()
	created, err := svc.Create(context.Background(), &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.SetActive(context.Background(), created.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Active {
		t.Error("expected inactive listing")
	}
	if updated.Visible() {
		t.Error("deactivated listing must not be visible")
	}
	if got := repo.stored[created.ID]; got.Active {
		t.Error("flip not persisted")
	}
}

func TestSetPublic_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo())
	_, err := svc.SetPublic(context.Background(), "missing", true)
	if !errors.Is(err, domain.ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	in := draft()
	created, err := svc.Create(context.Background(), &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.stored[created.ID]; ok {
		t.Error("listing not deleted")
	}

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound, got %v", err)
	}
}

// --- Feed ---

func TestFeed_RequiresInterests(t *testing.T) {
	svc := newTestService(newMockRepo())

	for _, interests := range [][]string{nil, {}, {"", "  "}} {
		if _, err := svc.Feed(context.Background(), interests, 0, 10); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("interests %v: expected ErrValidation, got %v", interests, err)
		}
	}
}

func TestFeed_PopularFirst(t *testing.T) {
	repo := newMockRepo()
	repo.findResults = []domact.Activity{draft()}
	repo.count = 7
	svc := newTestService(repo)

	pg, err := svc.Feed(context.Background(), []string{"music", "chess"}, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSortField != predicate.FieldEnrolled || !repo.lastSortDesc {
		t.Errorf("expected enrolled desc sort, got %s desc=%v", repo.lastSortField, repo.lastSortDesc)
	}
	if repo.lastOffset != 5 || repo.lastLimit != 5 {
		t.Errorf("unexpected window %d/%d", repo.lastOffset, repo.lastLimit)
	}
	if pg.TotalElements != 7 {
		t.Errorf("expected total 7, got %d", pg.TotalElements)
	}

	// The predicate keeps the visibility conjunct and ORs subject/tag
	// alternatives for the interests.
	clauses := repo.lastExpr.Clauses()
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(clauses))
	}
	if alts := clauses[2].Alternatives(); len(alts) != 4 {
		t.Errorf("expected 4 interest alternatives, got %d", len(alts))
	}
}
