// Package predicate models a discovery query as a composable boolean
// expression over listing fields. The expression is storage-agnostic; the
// store layer translates it into its native query syntax.
package predicate

import "strings"

// Storage field names shared by the predicate builder, the index definition
// and the listing repository.
const (
	FieldSubject       = "subject"
	FieldActivityType  = "activity_type"
	FieldMode          = "mode"
	FieldDifficulty    = "difficulty"
	FieldCity          = "city"
	FieldState         = "state"
	FieldPriceType     = "price_type"
	FieldSessionDays   = "session_days"
	FieldTags          = "tags"
	FieldPrice         = "price"
	FieldMinAge        = "min_age"
	FieldMaxAge        = "max_age"
	FieldDuration      = "duration_min"
	FieldRating        = "rating"
	FieldEnrolled      = "enrolled"
	FieldDemoAvailable = "demo_available"
	FieldFeatured      = "featured"
	FieldInstallment   = "installment"
	FieldFreeTrialDays = "free_trial_days"
	FieldDemoFreeTrial = "demo_free_trial"
	FieldFlexible      = "flexible"
	FieldSelfPaced     = "self_paced"
	FieldActive        = "active"
	FieldPublic        = "public"
	FieldCreatedAt     = "created_at"
	FieldSearchText    = "search_text"
)

// Boolean flag encoding used in storage.
const (
	True  = "1"
	False = "0"
)

// Kind discriminates condition types.
type Kind int

// Condition kinds.
const (
	// KindMatch is an anchored, case-insensitive equality test.
	KindMatch Kind = iota
	// KindContains tests membership of the value in a multi-valued field.
	KindContains
	// KindRange is a numeric comparison with optional bounds.
	KindRange
	// KindText is a free-text match over the listing's searchable text.
	KindText
)

// Condition is a single field test.
type Condition struct {
	key   string
	kind  Kind
	value string
	rng   *Range
}

// NewMatch creates an anchored equality condition. The value is case-folded.
func NewMatch(key, value string) Condition {
	return Condition{key: key, kind: KindMatch, value: fold(value)}
}

// NewBool creates an equality condition on a boolean flag field.
func NewBool(key string, v bool) Condition {
	val := False
	if v {
		val = True
	}
	return Condition{key: key, kind: KindMatch, value: val}
}

// NewContains creates a membership condition on a multi-valued field.
func NewContains(key, value string) Condition {
	return Condition{key: key, kind: KindContains, value: fold(value)}
}

// NewRangeCond creates a numeric range condition.
func NewRangeCond(key string, r Range) Condition {
	return Condition{key: key, kind: KindRange, rng: &r}
}

// NewText creates a free-text match condition.
func NewText(query string) Condition {
	return Condition{key: FieldSearchText, kind: KindText, value: strings.TrimSpace(query)}
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Kind returns the condition type.
func (c Condition) Kind() Kind { return c.kind }

// Value returns the match value or query text.
func (c Condition) Value() string { return c.value }

// Range returns the numeric range, nil for non-range conditions.
func (c Condition) Range() *Range { return c.rng }

// Range is a numeric comparison with optional inclusive/exclusive bounds.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// GTE returns a range with an inclusive lower bound.
func GTE(v float64) Range { return Range{gte: &v} }

// LTE returns a range with an inclusive upper bound.
func LTE(v float64) Range { return Range{lte: &v} }

// GT returns a range with an exclusive lower bound.
func GT(v float64) Range { return Range{gt: &v} }

// Between returns a range with inclusive bounds on both sides.
func Between(lo, hi float64) Range {
	return Range{gte: &lo, lte: &hi}
}

// Bounds accessors; nil means unbounded on that side.
func (r Range) GTBound() *float64  { return r.gt }
func (r Range) GTEBound() *float64 { return r.gte }
func (r Range) LTBound() *float64  { return r.lt }
func (r Range) LTEBound() *float64 { return r.lte }

// Clause is one conjunct of an expression: a disjunction of alternatives.
// A single-alternative clause is a plain condition test.
type Clause struct {
	any []Condition
}

// One wraps a single condition into a clause.
func One(c Condition) Clause { return Clause{any: []Condition{c}} }

// AnyOf builds a disjunctive clause. Order of alternatives is preserved.
func AnyOf(conds ...Condition) Clause { return Clause{any: conds} }

// Alternatives returns the clause's conditions (OR semantics).
func (cl Clause) Alternatives() []Condition { return cl.any }

// Expression is a conjunction of clauses.
type Expression struct {
	clauses []Clause
}

// Clauses returns the conjuncts in build order.
func (e Expression) Clauses() []Clause { return e.clauses }

// IsEmpty reports whether the expression has no clauses.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }

// and appends a conjunct.
func (e *Expression) and(cl Clause) { e.clauses = append(e.clauses, cl) }

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// values discards blank entries and case-folds the rest.
func values(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if f := fold(v); f != "" {
			out = append(out, f)
		}
	}
	return out
}
