package activity

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	a := Activity{
		Subject:      "  Math ",
		ActivityType: "COURSE",
		Mode:         "Online",
		Difficulty:   " Beginner",
		Location:     Location{City: "Pune ", State: " Maharashtra"},
		Pricing:      Pricing{PriceType: "Per_Session"},
		Schedule:     Schedule{SessionDays: []string{"Monday", "  ", "SATURDAY "}},
		Tags:         []string{" Algebra", "", "Geometry"},
	}
	a.Normalize()

	if a.Subject != "math" {
		t.Errorf("Subject = %q", a.Subject)
	}
	if a.ActivityType != "course" || a.Mode != "online" || a.Difficulty != "beginner" {
		t.Errorf("categorical facets = %q %q %q", a.ActivityType, a.Mode, a.Difficulty)
	}
	if a.Location.City != "pune" || a.Location.State != "maharashtra" {
		t.Errorf("location = %q %q", a.Location.City, a.Location.State)
	}
	if a.Pricing.PriceType != "per_session" {
		t.Errorf("price type = %q", a.Pricing.PriceType)
	}
	if got, want := len(a.Schedule.SessionDays), 2; got != want {
		t.Fatalf("session days = %v", a.Schedule.SessionDays)
	}
	if a.Schedule.SessionDays[0] != "monday" || a.Schedule.SessionDays[1] != "saturday" {
		t.Errorf("session days = %v", a.Schedule.SessionDays)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "algebra" || a.Tags[1] != "geometry" {
		t.Errorf("tags = %v", a.Tags)
	}
}

func TestNormalize_EmptySlicesBecomeNil(t *testing.T) {
	a := Activity{Schedule: Schedule{SessionDays: []string{" ", ""}}}
	a.Normalize()
	if len(a.Schedule.SessionDays) != 0 {
		t.Errorf("expected no session days, got %v", a.Schedule.SessionDays)
	}
}

func TestDocument(t *testing.T) {
	a := Activity{
		Title:       "Algebra Basics",
		Description: "linear equations",
		Subject:     "math",
		Tags:        []string{"algebra", "equations"},
	}
	doc := a.Document()
	for _, want := range []string{"Algebra Basics", "linear equations", "math", "algebra", "equations"} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document() missing %q: %q", want, doc)
		}
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		active, public, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tc := range tests {
		a := Activity{Active: tc.active, Public: tc.public}
		if got := a.Visible(); got != tc.want {
			t.Errorf("Visible(active=%v public=%v) = %v", tc.active, tc.public, got)
		}
	}
}
