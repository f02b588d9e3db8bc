package redis

import (
	"fmt"
	"strings"

	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// BuildQuery translates a predicate expression into an FT.SEARCH query
// string. Each clause becomes one conjunct; multi-alternative clauses
// become an OR group.
func BuildQuery(expr predicate.Expression) string {
	if expr.IsEmpty() {
		return "*"
	}

	parts := make([]string, 0, len(expr.Clauses()))
	for _, cl := range expr.Clauses() {
		if part := buildClause(cl); part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildClause(cl predicate.Clause) string {
	alts := cl.Alternatives()
	if len(alts) == 0 {
		return ""
	}
	if len(alts) == 1 {
		return buildCondition(alts[0])
	}

	parts := make([]string, 0, len(alts))
	for _, cond := range alts {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildCondition(cond predicate.Condition) string {
	switch cond.Kind() {
	case predicate.KindMatch, predicate.KindContains:
		// TAG membership covers both whole-value match and list
		// containment: the indexed field splits on the tag separator.
		return buildTagFilter(cond.Key(), cond.Value())
	case predicate.KindRange:
		return buildNumericFilter(cond.Key(), cond.Range())
	case predicate.KindText:
		return buildTextFilter(cond.Key(), cond.Value())
	}
	return ""
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

func buildNumericFilter(key string, r *predicate.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GTBound() != nil {
		minBound = fmt.Sprintf("(%g", *r.GTBound())
	} else if r.GTEBound() != nil {
		minBound = fmt.Sprintf("%g", *r.GTEBound())
	}

	if r.LTBound() != nil {
		maxBound = fmt.Sprintf("(%g", *r.LTBound())
	} else if r.LTEBound() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTEBound())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

// buildTextFilter matches documents containing any of the query terms.
func buildTextFilter(key, query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		escaped = append(escaped, queryEscaper.Replace(t))
	}
	return fmt.Sprintf("@%s:(%s)", key, strings.Join(escaped, " | "))
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
