package activity

import (
	"github.com/classverse/discovery/internal/db"
	"github.com/classverse/discovery/internal/domain"
	"github.com/classverse/discovery/internal/domain/geo"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// keyPrefix is the hash namespace for listings; IndexName is the FT index
// built over it.
const (
	keyPrefix = domain.KeyPrefix + "activity:"
	IndexName = domain.KeyPrefix + "activity:idx"
)

// Key returns the storage key for a listing ID.
func Key(id string) string {
	return keyPrefix + id
}

// IndexDefinition describes the listing FT index. Sortable fields back the
// result ordering keys; the vector field backs proximity search.
func IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Tag(predicate.FieldSubject).
		Tag(predicate.FieldActivityType).
		Tag(predicate.FieldMode).
		Tag(predicate.FieldDifficulty).
		SortableTag(predicate.FieldCity).
		SortableTag(predicate.FieldState).
		Tag(predicate.FieldPriceType).
		TagList(predicate.FieldSessionDays, tagListSeparator).
		TagList(predicate.FieldTags, tagListSeparator).
		SortableNumeric(predicate.FieldPrice).
		Numeric(predicate.FieldMinAge).
		Numeric(predicate.FieldMaxAge).
		SortableNumeric(predicate.FieldDuration).
		SortableNumeric(predicate.FieldRating).
		SortableNumeric(predicate.FieldEnrolled).
		Numeric(predicate.FieldFreeTrialDays).
		SortableNumeric(predicate.FieldCreatedAt).
		Tag(predicate.FieldDemoAvailable).
		Tag(predicate.FieldFeatured).
		Tag(predicate.FieldInstallment).
		Tag(predicate.FieldDemoFreeTrial).
		Tag(predicate.FieldFlexible).
		Tag(predicate.FieldSelfPaced).
		Tag(predicate.FieldActive).
		Tag(predicate.FieldPublic).
		Text(predicate.FieldSearchText).
		Vector(fieldGeo, geo.VectorDim).
		MustBuild()
}
