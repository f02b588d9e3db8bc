package predicate

import "github.com/classverse/discovery/internal/domain/search/criteria"

// Build folds the present dimensions of a filter into a predicate
// expression. The base conjunct active=true AND public=true is always
// present, so no query path can surface a hidden or retired listing.
func Build(c *criteria.Criteria) Expression {
	var e Expression

	e.and(One(NewBool(FieldActive, true)))
	e.and(One(NewBool(FieldPublic, true)))

	matchDim(&e, FieldSubject, c.Subjects)
	matchDim(&e, FieldActivityType, c.ActivityTypes)
	matchDim(&e, FieldMode, c.Modes)
	matchDim(&e, FieldDifficulty, c.Difficulties)
	matchDim(&e, FieldCity, c.Cities)
	matchDim(&e, FieldState, c.States)
	matchDim(&e, FieldPriceType, c.PriceTypes)
	containsDim(&e, FieldSessionDays, c.SessionDays)

	rangeDim(&e, FieldPrice, c.MinPrice, c.MaxPrice)
	rangeDim(&e, FieldDuration, c.MinDuration, c.MaxDuration)

	// Age is overlap, not containment: the listing's range must intersect
	// the filter's. Each half applies independently when only one bound is
	// given.
	if c.MaxAge != nil {
		e.and(One(NewRangeCond(FieldMinAge, LTE(float64(*c.MaxAge)))))
	}
	if c.MinAge != nil {
		e.and(One(NewRangeCond(FieldMaxAge, GTE(float64(*c.MinAge)))))
	}

	if c.MinRating != nil {
		e.and(One(NewRangeCond(FieldRating, GTE(*c.MinRating))))
	}

	boolDim(&e, FieldDemoAvailable, c.DemoAvailable)
	boolDim(&e, FieldFeatured, c.Featured)
	boolDim(&e, FieldInstallment, c.InstallmentAvailable)
	boolDim(&e, FieldFlexible, c.FlexibleScheduling)
	boolDim(&e, FieldSelfPaced, c.SelfPaced)

	// The flag only narrows toward "has a trial"; explicit false adds no
	// constraint.
	if c.FreeTrialAvailable != nil && *c.FreeTrialAvailable {
		e.and(AnyOf(
			NewRangeCond(FieldFreeTrialDays, GT(0)),
			NewBool(FieldDemoFreeTrial, true),
		))
	}

	if c.HasQuery() {
		e.and(One(NewText(c.Query)))
	}

	return e
}

// BuildFeed returns the interest-feed predicate: visible listings whose
// subject or tag set matches any of the given interests.
func BuildFeed(interests []string) Expression {
	var e Expression

	e.and(One(NewBool(FieldActive, true)))
	e.and(One(NewBool(FieldPublic, true)))

	vs := values(interests)
	if len(vs) == 0 {
		return e
	}

	conds := make([]Condition, 0, 2*len(vs))
	for _, v := range vs {
		conds = append(conds, NewMatch(FieldSubject, v))
	}
	for _, v := range vs {
		conds = append(conds, NewContains(FieldTags, v))
	}
	e.and(AnyOf(conds...))

	return e
}

// matchDim adds an OR-group of anchored equality tests for a multi-valued
// dimension. A single surviving value collapses to a plain equality clause.
func matchDim(e *Expression, key string, vals []string) {
	vs := values(vals)
	if len(vs) == 0 {
		return
	}
	conds := make([]Condition, 0, len(vs))
	for _, v := range vs {
		conds = append(conds, NewMatch(key, v))
	}
	if len(conds) == 1 {
		e.and(One(conds[0]))
		return
	}
	e.and(AnyOf(conds...))
}

// containsDim is matchDim with membership semantics per value.
func containsDim(e *Expression, key string, vals []string) {
	vs := values(vals)
	if len(vs) == 0 {
		return
	}
	conds := make([]Condition, 0, len(vs))
	for _, v := range vs {
		conds = append(conds, NewContains(key, v))
	}
	if len(conds) == 1 {
		e.and(One(conds[0]))
		return
	}
	e.and(AnyOf(conds...))
}

func rangeDim(e *Expression, key string, lo, hi *int) {
	if lo == nil && hi == nil {
		return
	}
	var r Range
	switch {
	case lo != nil && hi != nil:
		r = Between(float64(*lo), float64(*hi))
	case lo != nil:
		r = GTE(float64(*lo))
	default:
		r = LTE(float64(*hi))
	}
	e.and(One(NewRangeCond(key, r)))
}

func boolDim(e *Expression, key string, v *bool) {
	if v == nil {
		return
	}
	e.and(One(NewBool(key, *v)))
}
