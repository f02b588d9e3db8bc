// Package result defines query result shapes shared by the repository and
// usecase layers.
package result

import "github.com/classverse/discovery/internal/domain/activity"

// Hit is a ranked listing. DistanceKm is set for proximity hits, Score for
// relevance-ranked hits; both are nil for plain filter results. A listing
// sitting exactly at the origin carries a real zero distance.
type Hit struct {
	Activity   activity.Activity
	DistanceKm *float64
	Score      *float64
}
