package redis

import (
	"testing"

	"github.com/classverse/discovery/internal/domain/search/criteria"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

func TestBuildQuery_Empty(t *testing.T) {
	if got := BuildQuery(predicate.Expression{}); got != "*" {
		t.Errorf("expected *, got %q", got)
	}
}

func TestBuildQuery_BaseOnly(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{})
	want := "@active:{1} @public:{1}"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_SingleTag(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{Subjects: []string{"Music"}})
	want := "@active:{1} @public:{1} @subject:{music}"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_OrGroup(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{Modes: []string{"online", "hybrid"}})
	want := "@active:{1} @public:{1} (@mode:{online} | @mode:{hybrid})"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_TagEscaping(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{Cities: []string{"new york"}})
	want := `@active:{1} @public:{1} @city:{new\ york}`
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_PriceRange(t *testing.T) {
	lo, hi := 100, 500
	tests := []struct {
		name string
		c    criteria.Criteria
		want string
	}{
		{"both bounds", criteria.Criteria{MinPrice: &lo, MaxPrice: &hi},
			"@active:{1} @public:{1} @price:[100 500]"},
		{"min only", criteria.Criteria{MinPrice: &lo},
			"@active:{1} @public:{1} @price:[100 +inf]"},
		{"max only", criteria.Criteria{MaxPrice: &hi},
			"@active:{1} @public:{1} @price:[-inf 500]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildQuery(predicate.Build(&tc.c)); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildQuery_AgeOverlap(t *testing.T) {
	minAge, maxAge := 8, 12
	expr := predicate.Build(&criteria.Criteria{MinAge: &minAge, MaxAge: &maxAge})
	want := "@active:{1} @public:{1} @min_age:[-inf 12] @max_age:[8 +inf]"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_FreeTrialDisjunction(t *testing.T) {
	yes := true
	expr := predicate.Build(&criteria.Criteria{FreeTrialAvailable: &yes})
	want := "@active:{1} @public:{1} (@free_trial_days:[(0 +inf] | @demo_free_trial:{1})"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_TextTerms(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{Query: "guitar lessons"})
	want := "@active:{1} @public:{1} @search_text:(guitar | lessons)"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_TextEscaping(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{Query: "c++ (advanced)"})
	want := `@active:{1} @public:{1} @search_text:(c\+\+ | \(advanced\))`
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQuery_SessionDays(t *testing.T) {
	expr := predicate.Build(&criteria.Criteria{SessionDays: []string{"saturday", "sunday"}})
	want := "@active:{1} @public:{1} (@session_days:{saturday} | @session_days:{sunday})"
	if got := BuildQuery(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
