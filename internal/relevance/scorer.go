// Package relevance ranks listings against free-text queries using TF-IDF
// weights and cosine similarity over a process-lifetime corpus index.
//
// The index is an immutable snapshot behind an atomic pointer: BuildIndex
// constructs a fresh snapshot and swaps it in whole, so concurrent readers
// always vectorize against either the fully-old or fully-new vocabulary,
// never a partially built one.
package relevance

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/classverse/discovery/internal/domain/activity"
)

// Scorer holds the swappable corpus index.
type Scorer struct {
	snap atomic.Pointer[snapshot]
}

// snapshot is one fully-built index state.
type snapshot struct {
	// termIndex assigns each term a stable insertion-order position.
	termIndex map[string]int
	// docFreq counts documents containing the term, at most once per document.
	docFreq map[string]int
	docs    int
}

// NewScorer creates a scorer with an empty index.
func NewScorer() *Scorer {
	s := &Scorer{}
	s.snap.Store(&snapshot{
		termIndex: map[string]int{},
		docFreq:   map[string]int{},
	})
	return s
}

// BuildIndex replaces the index wholesale from an ordered document corpus.
// No reader observes a half-built index.
func (s *Scorer) BuildIndex(documents []string) {
	next := &snapshot{
		termIndex: make(map[string]int),
		docFreq:   make(map[string]int),
		docs:      len(documents),
	}

	idx := 0
	for _, doc := range documents {
		seen := map[string]bool{}
		for _, tok := range Tokenize(doc) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			next.docFreq[tok]++
			if _, ok := next.termIndex[tok]; !ok {
				next.termIndex[tok] = idx
				idx++
			}
		}
	}

	s.snap.Store(next)
}

// VocabSize returns the vocabulary size of the current index.
func (s *Scorer) VocabSize() int {
	return len(s.snap.Load().termIndex)
}

// Vectorize computes the TF-IDF weight vector of text against the current
// index. The vector length equals the vocabulary size at the last build;
// tokens outside the vocabulary contribute nothing.
func (s *Scorer) Vectorize(text string) []float64 {
	snap := s.snap.Load()

	counts := map[string]int{}
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}

	vec := make([]float64, len(snap.termIndex))
	for term, tf := range counts {
		i, ok := snap.termIndex[term]
		if !ok {
			continue
		}
		// df >= 1 for every indexed term.
		df := snap.docFreq[term]
		idf := math.Log(1 + float64(snap.docs)/float64(df))
		vec[i] = float64(tf) * idf
	}
	return vec
}

// Cosine returns the cosine similarity of two non-negative weight vectors,
// in [0,1]. Mismatched lengths indicate stale vectors from a superseded
// index and score 0, as does either vector having zero norm.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored pairs a listing with its relevance score.
type Scored struct {
	Activity activity.Activity
	Score    float64
}

// Rank orders candidates by descending similarity of their corpus documents
// to query. Equal scores fall back to ascending activity ID so the order is
// deterministic.
func (s *Scorer) Rank(query string, candidates []activity.Activity) []Scored {
	qv := s.Vectorize(query)

	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{
			Activity: c,
			Score:    Cosine(qv, s.Vectorize(c.Document())),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Activity.ID < scored[j].Activity.ID
	})
	return scored
}

// Tokenize lowercases, folds diacritics, maps non-alphanumeric runes to
// spaces, splits on whitespace and drops tokens of length <= 2.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	folded := norm.NFD.String(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark from decomposition, drop
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
