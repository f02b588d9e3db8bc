// Package activity defines the searchable listing entity and its facets.
package activity

import (
	"strings"
	"time"
)

// Activity is a tutoring listing. Categorical facets (subject, activity type,
// mode, difficulty, city, state, price type, session days, tags) are stored
// lowercase; Normalize enforces this before persistence.
type Activity struct {
	ID        string
	TutorID   string
	TutorName string

	Title       string
	Description string
	Subject     string

	ActivityType string
	Mode         string
	Difficulty   string

	Location   Location
	Pricing    Pricing
	AgeGroup   AgeGroup
	Duration   Duration
	Schedule   Schedule
	Engagement Engagement

	DemoAvailable bool
	Tags          []string

	Active    bool
	Public    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location holds the physical facet of an offline/hybrid listing.
type Location struct {
	City  string
	State string
	// Coordinates is nil for purely online listings.
	Coordinates *Point
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Pricing holds the price facet.
type Pricing struct {
	Price                int
	Currency             string
	PriceType            string
	InstallmentAvailable bool
	FreeTrialDays        int
	DemoFreeTrial        bool
}

// AgeGroup is the audience range the listing suits.
type AgeGroup struct {
	MinAge int
	MaxAge int
}

// Duration holds the total course length in minutes.
type Duration struct {
	TotalMinutes int
}

// Schedule holds the session timing facet.
type Schedule struct {
	SessionDays        []string
	FlexibleScheduling bool
	SelfPaced          bool
}

// Engagement holds out-of-band signals used for ranking and filtering.
type Engagement struct {
	RatingAverage float64
	TotalReviews  int
	EnrolledCount int
	Featured      bool
}

// Normalize lowercases and trims every categorical facet in place.
// Blank session days and tags are dropped.
func (a *Activity) Normalize() {
	a.Subject = fold(a.Subject)
	a.ActivityType = fold(a.ActivityType)
	a.Mode = fold(a.Mode)
	a.Difficulty = fold(a.Difficulty)
	a.Location.City = fold(a.Location.City)
	a.Location.State = fold(a.Location.State)
	a.Pricing.PriceType = fold(a.Pricing.PriceType)
	a.Schedule.SessionDays = foldAll(a.Schedule.SessionDays)
	a.Tags = foldAll(a.Tags)
}

// Document returns the text used as this listing's relevance-corpus entry:
// title, description, subject and tags concatenated.
func (a *Activity) Document() string {
	parts := make([]string, 0, 3+len(a.Tags))
	parts = append(parts, a.Title, a.Description, a.Subject)
	parts = append(parts, a.Tags...)
	return strings.Join(parts, " ")
}

// Visible reports whether the listing may appear in any query result.
func (a *Activity) Visible() bool {
	return a.Active && a.Public
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldAll(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if f := fold(v); f != "" {
			out = append(out, f)
		}
	}
	return out
}
