package activity

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/geo"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// Non-indexed hash fields. Indexed field names come from the predicate
// package so the index schema, the query builder and this mapping stay in
// sync.
const (
	fieldID          = "id"
	fieldTutorID     = "tutor_id"
	fieldTutorName   = "tutor_name"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCurrency    = "currency"
	fieldReviews     = "reviews"
	fieldUpdatedAt   = "updated_at"
	fieldLatitude    = "lat"
	fieldLongitude   = "lon"
	fieldGeo         = "geo"
)

// tagListSeparator joins multi-valued TAG fields (session days, tags).
const tagListSeparator = ","

// returnFields lists every hydratable hash field, excluding the binary geo
// blob so search replies stay text-only.
var returnFields = []string{
	fieldID, fieldTutorID, fieldTutorName, fieldTitle, fieldDescription,
	fieldCurrency, predicate.FieldTags, fieldReviews, fieldUpdatedAt,
	fieldLatitude, fieldLongitude,
	predicate.FieldSubject, predicate.FieldActivityType, predicate.FieldMode,
	predicate.FieldDifficulty, predicate.FieldCity, predicate.FieldState,
	predicate.FieldPriceType, predicate.FieldSessionDays, predicate.FieldPrice,
	predicate.FieldMinAge, predicate.FieldMaxAge, predicate.FieldDuration,
	predicate.FieldRating, predicate.FieldEnrolled, predicate.FieldDemoAvailable,
	predicate.FieldFeatured, predicate.FieldInstallment, predicate.FieldFreeTrialDays,
	predicate.FieldDemoFreeTrial, predicate.FieldFlexible, predicate.FieldSelfPaced,
	predicate.FieldActive, predicate.FieldPublic, predicate.FieldCreatedAt,
}

// activityToHash flattens a listing into the HSET field map, including the
// ECEF vector blob when coordinates are present.
func activityToHash(a *activity.Activity) map[string]string {
	m := map[string]string{
		fieldID:          a.ID,
		fieldTutorID:     a.TutorID,
		fieldTutorName:   a.TutorName,
		fieldTitle:       a.Title,
		fieldDescription: a.Description,
		fieldCurrency:    a.Pricing.Currency,
		predicate.FieldTags:        strings.Join(a.Tags, tagListSeparator),
		fieldReviews:     strconv.Itoa(a.Engagement.TotalReviews),
		fieldUpdatedAt:   strconv.FormatInt(a.UpdatedAt.Unix(), 10),

		predicate.FieldSubject:       a.Subject,
		predicate.FieldActivityType:  a.ActivityType,
		predicate.FieldMode:          a.Mode,
		predicate.FieldDifficulty:    a.Difficulty,
		predicate.FieldCity:          a.Location.City,
		predicate.FieldState:         a.Location.State,
		predicate.FieldPriceType:     a.Pricing.PriceType,
		predicate.FieldSessionDays:   strings.Join(a.Schedule.SessionDays, tagListSeparator),
		predicate.FieldPrice:         strconv.Itoa(a.Pricing.Price),
		predicate.FieldMinAge:        strconv.Itoa(a.AgeGroup.MinAge),
		predicate.FieldMaxAge:        strconv.Itoa(a.AgeGroup.MaxAge),
		predicate.FieldDuration:      strconv.Itoa(a.Duration.TotalMinutes),
		predicate.FieldRating:        strconv.FormatFloat(a.Engagement.RatingAverage, 'f', -1, 64),
		predicate.FieldEnrolled:      strconv.Itoa(a.Engagement.EnrolledCount),
		predicate.FieldDemoAvailable: boolFlag(a.DemoAvailable),
		predicate.FieldFeatured:      boolFlag(a.Engagement.Featured),
		predicate.FieldInstallment:   boolFlag(a.Pricing.InstallmentAvailable),
		predicate.FieldFreeTrialDays: strconv.Itoa(a.Pricing.FreeTrialDays),
		predicate.FieldDemoFreeTrial: boolFlag(a.Pricing.DemoFreeTrial),
		predicate.FieldFlexible:      boolFlag(a.Schedule.FlexibleScheduling),
		predicate.FieldSelfPaced:     boolFlag(a.Schedule.SelfPaced),
		predicate.FieldActive:        boolFlag(a.Active),
		predicate.FieldPublic:        boolFlag(a.Public),
		predicate.FieldCreatedAt:     strconv.FormatInt(a.CreatedAt.Unix(), 10),
		predicate.FieldSearchText:    a.Document(),
	}

	if p := a.Location.Coordinates; p != nil {
		m[fieldLatitude] = strconv.FormatFloat(p.Latitude, 'f', -1, 64)
		m[fieldLongitude] = strconv.FormatFloat(p.Longitude, 'f', -1, 64)
		m[fieldGeo] = vectorToBytes(geo.ToVector(p.Latitude, p.Longitude))
	}

	return m
}

// activityFromHash hydrates a listing from an HGETALL or search-entry field
// map. Unparseable numerics come back zero-valued.
func activityFromHash(m map[string]string) activity.Activity {
	a := activity.Activity{
		ID:          m[fieldID],
		TutorID:     m[fieldTutorID],
		TutorName:   m[fieldTutorName],
		Title:       m[fieldTitle],
		Description: m[fieldDescription],

		Subject:      m[predicate.FieldSubject],
		ActivityType: m[predicate.FieldActivityType],
		Mode:         m[predicate.FieldMode],
		Difficulty:   m[predicate.FieldDifficulty],

		DemoAvailable: m[predicate.FieldDemoAvailable] == predicate.True,
		Tags:          splitTagList(m[predicate.FieldTags]),
		Active:        m[predicate.FieldActive] == predicate.True,
		Public:        m[predicate.FieldPublic] == predicate.True,
	}

	a.Location.City = m[predicate.FieldCity]
	a.Location.State = m[predicate.FieldState]
	if latStr, lonStr := m[fieldLatitude], m[fieldLongitude]; latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			a.Location.Coordinates = &activity.Point{Latitude: lat, Longitude: lon}
		}
	}

	a.Pricing.Price = parseInt(m[predicate.FieldPrice])
	a.Pricing.Currency = m[fieldCurrency]
	a.Pricing.PriceType = m[predicate.FieldPriceType]
	a.Pricing.InstallmentAvailable = m[predicate.FieldInstallment] == predicate.True
	a.Pricing.FreeTrialDays = parseInt(m[predicate.FieldFreeTrialDays])
	a.Pricing.DemoFreeTrial = m[predicate.FieldDemoFreeTrial] == predicate.True

	a.AgeGroup.MinAge = parseInt(m[predicate.FieldMinAge])
	a.AgeGroup.MaxAge = parseInt(m[predicate.FieldMaxAge])
	a.Duration.TotalMinutes = parseInt(m[predicate.FieldDuration])

	a.Schedule.SessionDays = splitTagList(m[predicate.FieldSessionDays])
	a.Schedule.FlexibleScheduling = m[predicate.FieldFlexible] == predicate.True
	a.Schedule.SelfPaced = m[predicate.FieldSelfPaced] == predicate.True

	a.Engagement.RatingAverage = parseFloat(m[predicate.FieldRating])
	a.Engagement.TotalReviews = parseInt(m[fieldReviews])
	a.Engagement.EnrolledCount = parseInt(m[predicate.FieldEnrolled])
	a.Engagement.Featured = m[predicate.FieldFeatured] == predicate.True

	a.CreatedAt = time.Unix(parseInt64(m[predicate.FieldCreatedAt]), 0).UTC()
	a.UpdatedAt = time.Unix(parseInt64(m[fieldUpdatedAt]), 0).UTC()

	return a
}

func boolFlag(v bool) string {
	if v {
		return predicate.True
	}
	return predicate.False
}

func splitTagList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagListSeparator)
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
