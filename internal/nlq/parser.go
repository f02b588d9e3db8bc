// Package nlq extracts structured filter hints from natural-language
// queries using a fixed set of independent pattern matchers. Each
// extractor scans the original text on its own, which keeps behavior
// reproducible.
package nlq

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	distancePattern = regexp.MustCompile(`(?i)(?:within|under|less than|max)\s+(\d+)\s*(?:km|kilometer|kilometres)`)
	pricePattern    = regexp.MustCompile(`(?i)(?:under|below|less than|max|budget|within)\s+(\d+)\s*(?:inr|rupees?|rs)`)
	modePattern     = regexp.MustCompile(`(?i)\b(online|offline|hybrid)\b`)
	daysPattern     = regexp.MustCompile(`(?i)\b(weekend|weekday|monday|tuesday|wednesday|thursday|friday|saturday|sunday|evening|morning)s?\b`)

	stopWords  = regexp.MustCompile(`(?i)\b(?:find|me|classes|that|are|located|and|made|for|someone|who|has|to|suggest|something|will|make|within|range)\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// ParsedQuery is the structured decomposition of a natural-language query.
// Absent hints are nil/empty; Query holds the residual search text after
// all recognized spans are stripped.
type ParsedQuery struct {
	DistanceKm     *float64 `json:"distanceKm,omitempty"`
	PriceMax       *int     `json:"priceMax,omitempty"`
	Mode           string   `json:"mode,omitempty"`
	TimePreference string   `json:"timePreference,omitempty"`
	Query          string   `json:"query"`
	Original       string   `json:"original"`
}

// Parse extracts distance, price ceiling, mode and day/time hints from text.
// Extractors run independently in document order (distance, price, mode,
// day); the first match wins within each category. Overlapping matches
// between categories are not resolved: each removal pass strips spans from
// the original text on its own, a known and accepted limitation.
func Parse(text string) ParsedQuery {
	parsed := ParsedQuery{Original: text}

	if m := distancePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			parsed.DistanceKm = &v
		}
	}

	if m := pricePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			parsed.PriceMax = &v
		}
	}

	if m := modePattern.FindStringSubmatch(text); m != nil {
		parsed.Mode = strings.ToLower(m[1])
	}

	if m := daysPattern.FindStringSubmatch(text); m != nil {
		parsed.TimePreference = strings.ToLower(m[1])
	}

	clean := distancePattern.ReplaceAllString(text, "")
	clean = pricePattern.ReplaceAllString(clean, "")
	clean = modePattern.ReplaceAllString(clean, "")
	clean = daysPattern.ReplaceAllString(clean, "")
	clean = stopWords.ReplaceAllString(clean, "")
	clean = whitespace.ReplaceAllString(clean, " ")
	parsed.Query = strings.TrimSpace(clean)

	return parsed
}

// Weekdays recognized as literal session-day hints. "weekend", "weekday",
// "evening" and "morning" are broader preferences resolved by the caller.
var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// SessionDays translates the time preference into concrete session-day
// values, or nil when the hint does not name days.
func (p ParsedQuery) SessionDays() []string {
	switch {
	case weekdayNames[p.TimePreference]:
		return []string{p.TimePreference}
	case p.TimePreference == "weekend":
		return []string{"saturday", "sunday"}
	case p.TimePreference == "weekday":
		return []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	default:
		return nil
	}
}
