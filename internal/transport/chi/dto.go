package chi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/criteria"
	"github.com/classverse/discovery/internal/domain/search/page"
	"github.com/classverse/discovery/internal/domain/search/result"
)

// errorCode classifies an error response for clients.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeNotFound         errorCode = "not_found"
	codeMissingOrigin    errorCode = "missing_origin"
	codeForbidden        errorCode = "forbidden"
	codeInternal         errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type pointDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type activityRequest struct {
	TutorID   string `json:"tutorId"`
	TutorName string `json:"tutorName"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`

	ActivityType string `json:"activityType"`
	Mode         string `json:"mode"`
	Difficulty   string `json:"difficulty"`

	City        string    `json:"city"`
	State       string    `json:"state"`
	Coordinates *pointDTO `json:"coordinates,omitempty"`

	Price                int    `json:"price"`
	Currency             string `json:"currency"`
	PriceType            string `json:"priceType"`
	InstallmentAvailable bool   `json:"installmentAvailable"`
	FreeTrialDays        int    `json:"freeTrialDays"`
	DemoFreeTrial        bool   `json:"demoFreeTrial"`

	MinAge int `json:"minAge"`
	MaxAge int `json:"maxAge"`

	TotalMinutes int `json:"totalMinutes"`

	SessionDays        []string `json:"sessionDays"`
	FlexibleScheduling bool     `json:"flexibleScheduling"`
	SelfPaced          bool     `json:"selfPaced"`

	DemoAvailable bool     `json:"demoAvailable"`
	Tags          []string `json:"tags"`
	Public        bool     `json:"public"`
}

func (r *activityRequest) toDomain() activity.Activity {
	a := activity.Activity{
		TutorID:      r.TutorID,
		TutorName:    r.TutorName,
		Title:        r.Title,
		Description:  r.Description,
		Subject:      r.Subject,
		ActivityType: r.ActivityType,
		Mode:         r.Mode,
		Difficulty:   r.Difficulty,
		Location: activity.Location{
			City:  r.City,
			State: r.State,
		},
		Pricing: activity.Pricing{
			Price:                r.Price,
			Currency:             r.Currency,
			PriceType:            r.PriceType,
			InstallmentAvailable: r.InstallmentAvailable,
			FreeTrialDays:        r.FreeTrialDays,
			DemoFreeTrial:        r.DemoFreeTrial,
		},
		AgeGroup: activity.AgeGroup{MinAge: r.MinAge, MaxAge: r.MaxAge},
		Duration: activity.Duration{TotalMinutes: r.TotalMinutes},
		Schedule: activity.Schedule{
			SessionDays:        r.SessionDays,
			FlexibleScheduling: r.FlexibleScheduling,
			SelfPaced:          r.SelfPaced,
		},
		DemoAvailable: r.DemoAvailable,
		Tags:          r.Tags,
		Public:        r.Public,
	}
	if r.Coordinates != nil {
		a.Location.Coordinates = &activity.Point{
			Latitude:  r.Coordinates.Latitude,
			Longitude: r.Coordinates.Longitude,
		}
	}
	return a
}

type activityResponse struct {
	ID        string `json:"id"`
	TutorID   string `json:"tutorId"`
	TutorName string `json:"tutorName,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject"`

	ActivityType string `json:"activityType,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`

	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Coordinates *pointDTO `json:"coordinates,omitempty"`

	Price                int    `json:"price"`
	Currency             string `json:"currency,omitempty"`
	PriceType            string `json:"priceType,omitempty"`
	InstallmentAvailable bool   `json:"installmentAvailable"`
	FreeTrialDays        int    `json:"freeTrialDays"`
	DemoFreeTrial        bool   `json:"demoFreeTrial"`

	MinAge int `json:"minAge"`
	MaxAge int `json:"maxAge"`

	TotalMinutes int `json:"totalMinutes"`

	SessionDays        []string `json:"sessionDays,omitempty"`
	FlexibleScheduling bool     `json:"flexibleScheduling"`
	SelfPaced          bool     `json:"selfPaced"`

	RatingAverage float64 `json:"ratingAverage"`
	TotalReviews  int     `json:"totalReviews"`
	EnrolledCount int     `json:"enrolledCount"`
	Featured      bool    `json:"featured"`

	DemoAvailable bool     `json:"demoAvailable"`
	Tags          []string `json:"tags,omitempty"`

	Active    bool      `json:"active"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func activityToAPI(a activity.Activity) activityResponse {
	resp := activityResponse{
		ID:                   a.ID,
		TutorID:              a.TutorID,
		TutorName:            a.TutorName,
		Title:                a.Title,
		Description:          a.Description,
		Subject:              a.Subject,
		ActivityType:         a.ActivityType,
		Mode:                 a.Mode,
		Difficulty:           a.Difficulty,
		City:                 a.Location.City,
		State:                a.Location.State,
		Price:                a.Pricing.Price,
		Currency:             a.Pricing.Currency,
		PriceType:            a.Pricing.PriceType,
		InstallmentAvailable: a.Pricing.InstallmentAvailable,
		FreeTrialDays:        a.Pricing.FreeTrialDays,
		DemoFreeTrial:        a.Pricing.DemoFreeTrial,
		MinAge:               a.AgeGroup.MinAge,
		MaxAge:               a.AgeGroup.MaxAge,
		TotalMinutes:         a.Duration.TotalMinutes,
		SessionDays:          a.Schedule.SessionDays,
		FlexibleScheduling:   a.Schedule.FlexibleScheduling,
		SelfPaced:            a.Schedule.SelfPaced,
		RatingAverage:        a.Engagement.RatingAverage,
		TotalReviews:         a.Engagement.TotalReviews,
		EnrolledCount:        a.Engagement.EnrolledCount,
		Featured:             a.Engagement.Featured,
		DemoAvailable:        a.DemoAvailable,
		Tags:                 a.Tags,
		Active:               a.Active,
		Public:               a.Public,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if a.Location.Coordinates != nil {
		resp.Coordinates = &pointDTO{
			Latitude:  a.Location.Coordinates.Latitude,
			Longitude: a.Location.Coordinates.Longitude,
		}
	}
	return resp
}

// hitResponse is an activity with optional ranking annotations.
type hitResponse struct {
	activityResponse
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

func hitToAPI(h result.Hit) hitResponse {
	return hitResponse{
		activityResponse: activityToAPI(h.Activity),
		DistanceKm:       h.DistanceKm,
		Score:            h.Score,
	}
}

func activityPageToAPI(pg page.Page[activity.Activity]) page.Page[activityResponse] {
	items := make([]activityResponse, len(pg.Items))
	for i, a := range pg.Items {
		items[i] = activityToAPI(a)
	}
	return page.Page[activityResponse]{
		Items:         items,
		PageNumber:    pg.PageNumber,
		PageSize:      pg.PageSize,
		TotalElements: pg.TotalElements,
		Last:          pg.Last,
	}
}

func hitPageToAPI(pg page.Page[result.Hit]) page.Page[hitResponse] {
	items := make([]hitResponse, len(pg.Items))
	for i, h := range pg.Items {
		items[i] = hitToAPI(h)
	}
	return page.Page[hitResponse]{
		Items:         items,
		PageNumber:    pg.PageNumber,
		PageSize:      pg.PageSize,
		TotalElements: pg.TotalElements,
		Last:          pg.Last,
	}
}

// searchRequest mirrors criteria.Criteria for the POST search body.
type searchRequest struct {
	Subjects      []string `json:"subjects,omitempty"`
	ActivityTypes []string `json:"activityTypes,omitempty"`
	Modes         []string `json:"modes,omitempty"`
	Difficulties  []string `json:"difficulties,omitempty"`
	Cities        []string `json:"cities,omitempty"`
	States        []string `json:"states,omitempty"`
	PriceTypes    []string `json:"priceTypes,omitempty"`
	SessionDays   []string `json:"sessionDays,omitempty"`

	MinPrice    *int     `json:"minPrice,omitempty"`
	MaxPrice    *int     `json:"maxPrice,omitempty"`
	MinAge      *int     `json:"minAge,omitempty"`
	MaxAge      *int     `json:"maxAge,omitempty"`
	MinDuration *int     `json:"minDuration,omitempty"`
	MaxDuration *int     `json:"maxDuration,omitempty"`
	MinRating   *float64 `json:"minRating,omitempty"`

	DemoAvailable        *bool `json:"demoAvailable,omitempty"`
	Featured             *bool `json:"featured,omitempty"`
	FreeTrialAvailable   *bool `json:"freeTrialAvailable,omitempty"`
	InstallmentAvailable *bool `json:"installmentAvailable,omitempty"`
	FlexibleScheduling   *bool `json:"flexibleScheduling,omitempty"`
	SelfPaced            *bool `json:"selfPaced,omitempty"`

	Query string `json:"query,omitempty"`

	SortBy        string `json:"sortBy,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`

	Page int `json:"page"`
	Size int `json:"size"`

	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MaxDistanceKm *float64 `json:"maxDistanceKm,omitempty"`
}

func (r *searchRequest) toCriteria() *criteria.Criteria {
	c := &criteria.Criteria{
		Subjects:             r.Subjects,
		ActivityTypes:        r.ActivityTypes,
		Modes:                r.Modes,
		Difficulties:         r.Difficulties,
		Cities:               r.Cities,
		States:               r.States,
		PriceTypes:           r.PriceTypes,
		SessionDays:          r.SessionDays,
		MinPrice:             r.MinPrice,
		MaxPrice:             r.MaxPrice,
		MinAge:               r.MinAge,
		MaxAge:               r.MaxAge,
		MinDuration:          r.MinDuration,
		MaxDuration:          r.MaxDuration,
		MinRating:            r.MinRating,
		DemoAvailable:        r.DemoAvailable,
		Featured:             r.Featured,
		FreeTrialAvailable:   r.FreeTrialAvailable,
		InstallmentAvailable: r.InstallmentAvailable,
		FlexibleScheduling:   r.FlexibleScheduling,
		SelfPaced:            r.SelfPaced,
		Query:                r.Query,
		SortBy:               r.SortBy,
		SortDirection:        criteria.Direction(r.SortDirection),
		Page:                 r.Page,
		Size:                 r.Size,
		MaxDistanceKm:        r.MaxDistanceKm,
	}
	if r.Latitude != nil && r.Longitude != nil {
		c.Origin = &criteria.GeoOrigin{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return c
}

// criteriaFromQuery parses the GET search query string. Multi-valued
// dimensions accept comma-separated lists; unparseable numbers and booleans
// are treated as absent.
func criteriaFromQuery(r *http.Request) *criteria.Criteria {
	q := r.URL.Query()

	c := &criteria.Criteria{
		Subjects:      csvParam(q.Get("subjects")),
		ActivityTypes: csvParam(q.Get("activityTypes")),
		Modes:         csvParam(q.Get("modes")),
		Difficulties:  csvParam(q.Get("difficulties")),
		Cities:        csvParam(q.Get("cities")),
		States:        csvParam(q.Get("states")),
		PriceTypes:    csvParam(q.Get("priceTypes")),
		SessionDays:   csvParam(q.Get("sessionDays")),

		MinPrice:    intParam(q.Get("minPrice")),
		MaxPrice:    intParam(q.Get("maxPrice")),
		MinAge:      intParam(q.Get("minAge")),
		MaxAge:      intParam(q.Get("maxAge")),
		MinDuration: intParam(q.Get("minDuration")),
		MaxDuration: intParam(q.Get("maxDuration")),
		MinRating:   floatParam(q.Get("minRating")),

		DemoAvailable:        boolParam(q.Get("demoAvailable")),
		Featured:             boolParam(q.Get("featured")),
		FreeTrialAvailable:   boolParam(q.Get("freeTrial")),
		InstallmentAvailable: boolParam(q.Get("installment")),
		FlexibleScheduling:   boolParam(q.Get("flexible")),
		SelfPaced:            boolParam(q.Get("selfPaced")),

		Query:         q.Get("q"),
		SortBy:        q.Get("sortBy"),
		SortDirection: criteria.Direction(q.Get("sortDirection")),

		MaxDistanceKm: floatParam(q.Get("maxDistanceKm")),
	}

	if v := intParam(q.Get("page")); v != nil {
		c.Page = *v
	}
	if v := intParam(q.Get("size")); v != nil {
		c.Size = *v
	}

	lat := floatParam(q.Get("lat"))
	lon := floatParam(q.Get("lon"))
	if lat != nil && lon != nil {
		c.Origin = &criteria.GeoOrigin{Latitude: *lat, Longitude: *lon}
	}

	return c
}

func csvParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func intParam(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func floatParam(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func boolParam(v string) *bool {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
