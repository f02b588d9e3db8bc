// Package criteria defines the sparse facet-filter input for discovery queries.
package criteria

import "strings"

// Paging limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultMaxDistanceKm bounds proximity search when no radius is given.
const DefaultMaxDistanceKm = 50

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort keys recognized by the orchestrator. Any other non-empty key is
// passed through to the store as a literal field-name sort.
const (
	SortPrice      = "price"
	SortRating     = "rating"
	SortPopularity = "popularity"
	SortNewest     = "newest"
	SortDuration   = "duration"
	SortCity       = "city"
	SortState      = "state"
)

// GeoOrigin is the caller's location for proximity search.
type GeoOrigin struct {
	Latitude  float64
	Longitude float64
}

// Criteria is a sparse set of facet constraints. Every dimension is
// independently optional: nil slices and nil pointers mean "no constraint".
// Present dimensions are conjoined (AND); values within one multi-valued
// dimension are alternatives (OR).
type Criteria struct {
	// Multi-valued categorical dimensions, case-insensitive exact match.
	Subjects      []string
	ActivityTypes []string
	Modes         []string
	Difficulties  []string
	Cities        []string
	States        []string
	PriceTypes    []string
	// SessionDays matches membership in the listing's day-set.
	SessionDays []string

	// Ranges; either bound may be absent.
	MinPrice    *int
	MaxPrice    *int
	MinAge      *int
	MaxAge      *int
	MinDuration *int
	MaxDuration *int
	MinRating   *float64

	// Tri-state flags; nil means "no constraint", not "must be false".
	DemoAvailable        *bool
	Featured             *bool
	FreeTrialAvailable   *bool
	InstallmentAvailable *bool
	FlexibleScheduling   *bool
	SelfPaced            *bool

	// Free-text query, applied as a text-match constraint.
	Query string

	SortBy        string
	SortDirection Direction

	// Zero-based page index and page size.
	Page int
	Size int

	// Proximity inputs. Origin present switches search to distance-bounded,
	// distance-ordered mode.
	Origin        *GeoOrigin
	MaxDistanceKm *float64
}

// Normalize clamps paging to sane bounds and defaults the sort direction.
func (c *Criteria) Normalize() {
	if c.Page < 0 {
		c.Page = 0
	}
	if c.Size <= 0 {
		c.Size = DefaultPageSize
	}
	if c.Size > MaxPageSize {
		c.Size = MaxPageSize
	}
	if c.SortDirection != Asc && c.SortDirection != Desc {
		c.SortDirection = Desc
	}
	c.SortBy = strings.ToLower(strings.TrimSpace(c.SortBy))
}

// Offset returns the number of results to skip for the current page.
func (c *Criteria) Offset() int {
	return c.Page * c.Size
}

// MaxDistanceOrDefault returns the proximity radius, defaulting to 50 km.
func (c *Criteria) MaxDistanceOrDefault() float64 {
	if c.MaxDistanceKm != nil && *c.MaxDistanceKm > 0 {
		return *c.MaxDistanceKm
	}
	return DefaultMaxDistanceKm
}

// HasQuery reports whether a non-blank free-text query is present.
func (c *Criteria) HasQuery() bool {
	return strings.TrimSpace(c.Query) != ""
}
