package predicate

import (
	"testing"

	"github.com/classverse/discovery/internal/domain/search/criteria"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func boolPtr(v bool) *bool          { return &v }

// findClause returns the first clause whose first alternative targets key.
func findClause(t *testing.T, e Expression, key string) Clause {
	t.Helper()
	for _, cl := range e.Clauses() {
		alts := cl.Alternatives()
		if len(alts) > 0 && alts[0].Key() == key {
			return cl
		}
	}
	t.Fatalf("no clause for key %q", key)
	return Clause{}
}

func countClauses(e Expression, key string) int {
	n := 0
	for _, cl := range e.Clauses() {
		alts := cl.Alternatives()
		if len(alts) > 0 && alts[0].Key() == key {
			n++
		}
	}
	return n
}

func TestBuild_BaseConjunctAlwaysPresent(t *testing.T) {
	e := Build(&criteria.Criteria{})

	if len(e.Clauses()) != 2 {
		t.Fatalf("empty criteria should yield only the base conjunct, got %d clauses", len(e.Clauses()))
	}
	active := findClause(t, e, FieldActive).Alternatives()[0]
	public := findClause(t, e, FieldPublic).Alternatives()[0]
	if active.Value() != True || public.Value() != True {
		t.Errorf("base conjunct = %q/%q", active.Value(), public.Value())
	}
}

func TestBuild_SingleValueCollapses(t *testing.T) {
	e := Build(&criteria.Criteria{Subjects: []string{" Math "}})

	cl := findClause(t, e, FieldSubject)
	alts := cl.Alternatives()
	if len(alts) != 1 {
		t.Fatalf("single value must collapse to one alternative, got %d", len(alts))
	}
	if alts[0].Value() != "math" {
		t.Errorf("value = %q, want case-folded %q", alts[0].Value(), "math")
	}
	if alts[0].Kind() != KindMatch {
		t.Errorf("kind = %v", alts[0].Kind())
	}
}

func TestBuild_MultiValueBecomesDisjunction(t *testing.T) {
	e := Build(&criteria.Criteria{Cities: []string{"Pune", "", "Mumbai", "  "}})

	cl := findClause(t, e, FieldCity)
	alts := cl.Alternatives()
	if len(alts) != 2 {
		t.Fatalf("blank entries must be discarded, got %d alternatives", len(alts))
	}
	if alts[0].Value() != "pune" || alts[1].Value() != "mumbai" {
		t.Errorf("alternatives = %q, %q", alts[0].Value(), alts[1].Value())
	}
}

func TestBuild_AllBlankDimensionSkipped(t *testing.T) {
	e := Build(&criteria.Criteria{Modes: []string{"", "   "}})
	if countClauses(e, FieldMode) != 0 {
		t.Error("dimension of only blank values must add no clause")
	}
}

func TestBuild_SessionDaysUseContains(t *testing.T) {
	e := Build(&criteria.Criteria{SessionDays: []string{"Saturday", "sunday"}})

	cl := findClause(t, e, FieldSessionDays)
	for _, c := range cl.Alternatives() {
		if c.Kind() != KindContains {
			t.Errorf("session day condition kind = %v, want KindContains", c.Kind())
		}
	}
}

func TestBuild_PriceRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int
		wantGTE  *float64
		wantLTE  *float64
	}{
		{"both", intPtr(100), intPtr(500), floatPtr(100), floatPtr(500)},
		{"min only", intPtr(100), nil, floatPtr(100), nil},
		{"max only", nil, intPtr(500), nil, floatPtr(500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Build(&criteria.Criteria{MinPrice: tt.min, MaxPrice: tt.max})
			r := findClause(t, e, FieldPrice).Alternatives()[0].Range()
			if r == nil {
				t.Fatal("expected range condition")
			}
			if (r.GTEBound() == nil) != (tt.wantGTE == nil) {
				t.Error("GTE presence mismatch")
			}
			if tt.wantGTE != nil && *r.GTEBound() != *tt.wantGTE {
				t.Errorf("GTE = %f", *r.GTEBound())
			}
			if (r.LTEBound() == nil) != (tt.wantLTE == nil) {
				t.Error("LTE presence mismatch")
			}
			if tt.wantLTE != nil && *r.LTEBound() != *tt.wantLTE {
				t.Errorf("LTE = %f", *r.LTEBound())
			}
		})
	}
}

func TestBuild_AgeOverlapSemantics(t *testing.T) {
	// Both bounds: listing.minAge <= f.maxAge AND listing.maxAge >= f.minAge.
	e := Build(&criteria.Criteria{MinAge: intPtr(12), MaxAge: intPtr(30)})

	minAgeCl := findClause(t, e, FieldMinAge).Alternatives()[0]
	if r := minAgeCl.Range(); r == nil || r.LTEBound() == nil || *r.LTEBound() != 30 {
		t.Error("expected min_age <= 30")
	}
	maxAgeCl := findClause(t, e, FieldMaxAge).Alternatives()[0]
	if r := maxAgeCl.Range(); r == nil || r.GTEBound() == nil || *r.GTEBound() != 12 {
		t.Error("expected max_age >= 12")
	}
}

func TestBuild_AgeHalfOpen(t *testing.T) {
	e := Build(&criteria.Criteria{MinAge: intPtr(16)})
	if countClauses(e, FieldMinAge) != 0 {
		t.Error("min-age-only filter must not constrain listing min_age")
	}
	if countClauses(e, FieldMaxAge) != 1 {
		t.Error("min-age-only filter must constrain listing max_age")
	}
}

func TestBuild_RatingFloor(t *testing.T) {
	e := Build(&criteria.Criteria{MinRating: floatPtr(4.0)})
	r := findClause(t, e, FieldRating).Alternatives()[0].Range()
	if r == nil || r.GTEBound() == nil || *r.GTEBound() != 4.0 {
		t.Error("expected rating >= 4.0")
	}
}

func TestBuild_TriStateBooleans(t *testing.T) {
	// Absent adds nothing; explicit false is a real constraint.
	e := Build(&criteria.Criteria{Featured: boolPtr(false)})
	cl := findClause(t, e, FieldFeatured).Alternatives()[0]
	if cl.Value() != False {
		t.Errorf("featured value = %q", cl.Value())
	}

	e = Build(&criteria.Criteria{})
	if countClauses(e, FieldFeatured) != 0 {
		t.Error("absent flag must add no clause")
	}
}

func TestBuild_FreeTrialDisjunction(t *testing.T) {
	e := Build(&criteria.Criteria{FreeTrialAvailable: boolPtr(true)})

	cl := findClause(t, e, FieldFreeTrialDays)
	alts := cl.Alternatives()
	if len(alts) != 2 {
		t.Fatalf("free trial must expand to a 2-way disjunction, got %d", len(alts))
	}
	if r := alts[0].Range(); r == nil || r.GTBound() == nil || *r.GTBound() != 0 {
		t.Error("first alternative must be free_trial_days > 0")
	}
	if alts[1].Key() != FieldDemoFreeTrial || alts[1].Value() != True {
		t.Error("second alternative must be demo_free_trial = true")
	}
}

func TestBuild_FreeTrialFalseAddsNothing(t *testing.T) {
	e := Build(&criteria.Criteria{FreeTrialAvailable: boolPtr(false)})
	if countClauses(e, FieldFreeTrialDays) != 0 {
		t.Error("explicit false must not filter out trial-less listings")
	}
}

func TestBuild_TextQuery(t *testing.T) {
	e := Build(&criteria.Criteria{Query: "  guitar lessons "})
	cl := findClause(t, e, FieldSearchText).Alternatives()[0]
	if cl.Kind() != KindText {
		t.Errorf("kind = %v", cl.Kind())
	}
	if cl.Value() != "guitar lessons" {
		t.Errorf("value = %q", cl.Value())
	}

	e = Build(&criteria.Criteria{Query: "   "})
	if countClauses(e, FieldSearchText) != 0 {
		t.Error("blank query must add no clause")
	}
}

func TestBuildFeed_SubjectOrTagPerInterest(t *testing.T) {
	e := BuildFeed([]string{"Music", "chess"})

	if got := len(e.Clauses()); got != 3 {
		t.Fatalf("clause count = %d, want base pair plus one interest group", got)
	}

	alts := e.Clauses()[2].Alternatives()
	if len(alts) != 4 {
		t.Fatalf("alternatives = %d, want subject and tag per interest", len(alts))
	}
	if alts[0].Key() != FieldSubject || alts[0].Value() != "music" {
		t.Errorf("first alternative = (%q, %q), want folded subject match", alts[0].Key(), alts[0].Value())
	}
	if alts[2].Key() != FieldTags || alts[2].Kind() != KindContains {
		t.Errorf("tag alternative = (%q, %v), want tags containment", alts[2].Key(), alts[2].Kind())
	}
}

func TestBuildFeed_NoInterests_BaseOnly(t *testing.T) {
	e := BuildFeed(nil)

	if got := len(e.Clauses()); got != 2 {
		t.Fatalf("clause count = %d, want only the visibility conjuncts", got)
	}
	if countClauses(e, FieldSubject) != 0 || countClauses(e, FieldTags) != 0 {
		t.Error("no interest clauses expected")
	}
}
