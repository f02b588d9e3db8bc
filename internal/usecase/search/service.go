// Package search orchestrates discovery queries: faceted search, proximity
// search, natural-language smart search and relevance ranking.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/classverse/discovery/internal/domain"
	"github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/criteria"
	"github.com/classverse/discovery/internal/domain/search/page"
	"github.com/classverse/discovery/internal/domain/search/predicate"
	"github.com/classverse/discovery/internal/domain/search/result"
	"github.com/classverse/discovery/internal/metrics"
	"github.com/classverse/discovery/internal/nlq"
	"github.com/classverse/discovery/internal/relevance"
)

// relevanceCandidateLimit caps how many filter matches are pulled in for
// in-memory relevance ranking.
const relevanceCandidateLimit = 200

// Service runs discovery queries against the listing repository.
type Service struct {
	repo   Repository
	scorer *relevance.Scorer

	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(repo Repository, scorer *relevance.Scorer) *Service {
	return &Service{
		repo:            repo,
		scorer:          scorer,
		defaultPageSize: criteria.DefaultPageSize,
		maxPageSize:     criteria.MaxPageSize,
	}
}

// WithPagination overrides the default and maximum page sizes.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

// clampPaging applies the configured page-size bounds ahead of Normalize,
// which enforces the package-level limits.
func (s *Service) clampPaging(c *criteria.Criteria) {
	if c.Size <= 0 {
		c.Size = s.defaultPageSize
	}
	if c.Size > s.maxPageSize {
		c.Size = s.maxPageSize
	}
}

// Search returns one page of listings matching the criteria. The total is
// the exact unbounded match count, queried separately from the page window.
func (s *Service) Search(ctx context.Context, c *criteria.Criteria) (page.Page[activity.Activity], error) {
	s.clampPaging(c)
	c.Normalize()
	expr := predicate.Build(c)
	sortField, sortDesc := resolveSort(c)

	items, err := s.repo.Find(ctx, expr, sortField, sortDesc, c.Offset(), c.Size)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("filter", "error").Inc()
		return page.Page[activity.Activity]{}, fmt.Errorf("find: %w", err)
	}

	total, err := s.repo.Count(ctx, expr)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("filter", "error").Inc()
		return page.Page[activity.Activity]{}, fmt.Errorf("count: %w", err)
	}

	metrics.SearchQueriesTotal.WithLabelValues("filter", "ok").Inc()
	return page.New(items, c.Page, c.Size, total), nil
}

// SearchNear returns one page of listings ordered nearest-first from the
// criteria origin. Only candidates up to the requested window are
// materialized, so the reported total is the window size, not the full
// match count.
func (s *Service) SearchNear(ctx context.Context, c *criteria.Criteria) (page.Page[result.Hit], error) {
	if c.Origin == nil {
		return page.Page[result.Hit]{}, domain.ErrMissingOrigin
	}
	s.clampPaging(c)
	c.Normalize()
	expr := predicate.Build(c)

	k := c.Offset() + c.Size
	origin := activity.Point{Latitude: c.Origin.Latitude, Longitude: c.Origin.Longitude}

	hits, err := s.repo.FindNear(ctx, expr, origin, c.MaxDistanceOrDefault(), k)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("proximity", "error").Inc()
		return page.Page[result.Hit]{}, fmt.Errorf("find near: %w", err)
	}
	metrics.SearchQueriesTotal.WithLabelValues("proximity", "ok").Inc()

	total := len(hits)
	start, end := window(total, c.Offset(), c.Size)
	return page.New(hits[start:end], c.Page, c.Size, int64(total)), nil
}

// SearchSmart parses a natural-language query, folds the extracted hints
// into the criteria and dispatches: proximity when a distance hint and an
// origin are both present, relevance ranking when residual query text
// remains, plain faceted search otherwise.
func (s *Service) SearchSmart(
	ctx context.Context, raw string, c *criteria.Criteria,
) (nlq.ParsedQuery, page.Page[result.Hit], error) {
	parsed := nlq.Parse(raw)
	applyHints(c, parsed)
	s.clampPaging(c)
	c.Normalize()

	switch {
	case parsed.DistanceKm != nil && c.Origin != nil:
		pg, err := s.SearchNear(ctx, c)
		return parsed, pg, err

	case c.HasQuery():
		pg, err := s.searchRanked(ctx, c)
		return parsed, pg, err

	default:
		pg, err := s.Search(ctx, c)
		if err != nil {
			return parsed, page.Page[result.Hit]{}, err
		}
		hits := make([]result.Hit, 0, len(pg.Items))
		for _, a := range pg.Items {
			hits = append(hits, result.Hit{Activity: a})
		}
		return parsed, page.New(hits, pg.PageNumber, pg.PageSize, pg.TotalElements), nil
	}
}

// Rank orders candidates by TF-IDF cosine relevance to the query.
func (s *Service) Rank(query string, candidates []activity.Activity) []relevance.Scored {
	return s.scorer.Rank(query, candidates)
}

// BuildRelevanceIndex rebuilds the TF-IDF corpus from every stored listing
// and swaps it in atomically. Returns the corpus size.
func (s *Service) BuildRelevanceIndex(ctx context.Context) (int, error) {
	listings, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}

	docs := make([]string, 0, len(listings))
	for i := range listings {
		docs = append(docs, listings[i].Document())
	}
	s.scorer.BuildIndex(docs)
	metrics.RelevanceIndexDocuments.Set(float64(len(docs)))

	return len(docs), nil
}

// searchRanked fetches filter matches without the text conjunct, ranks them
// by TF-IDF relevance to the query, and pages the ranked list in memory.
func (s *Service) searchRanked(ctx context.Context, c *criteria.Criteria) (page.Page[result.Hit], error) {
	fc := *c
	fc.Query = ""
	expr := predicate.Build(&fc)

	candidates, err := s.repo.Find(ctx, expr, "", false, 0, relevanceCandidateLimit)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("ranked", "error").Inc()
		return page.Page[result.Hit]{}, fmt.Errorf("find candidates: %w", err)
	}

	rankStart := time.Now()
	ranked := s.scorer.Rank(c.Query, candidates)
	metrics.SearchRankDuration.WithLabelValues("ranked").Observe(time.Since(rankStart).Seconds())
	metrics.SearchQueriesTotal.WithLabelValues("ranked", "ok").Inc()

	total := len(ranked)
	start, end := window(total, c.Offset(), c.Size)
	hits := make([]result.Hit, 0, end-start)
	for _, sc := range ranked[start:end] {
		score := sc.Score
		hits = append(hits, result.Hit{Activity: sc.Activity, Score: &score})
	}
	return page.New(hits, c.Page, c.Size, int64(total)), nil
}

// applyHints folds parsed hints into unset criteria dimensions. Explicit
// criteria always win over extracted ones; the residual text replaces the
// free-text query either way.
func applyHints(c *criteria.Criteria, p nlq.ParsedQuery) {
	if p.DistanceKm != nil && c.MaxDistanceKm == nil {
		c.MaxDistanceKm = p.DistanceKm
	}
	if p.PriceMax != nil && c.MaxPrice == nil {
		c.MaxPrice = p.PriceMax
	}
	if p.Mode != "" && len(c.Modes) == 0 {
		c.Modes = []string{p.Mode}
	}
	if days := p.SessionDays(); len(days) > 0 && len(c.SessionDays) == 0 {
		c.SessionDays = days
	}
	c.Query = p.Query
}

// resolveSort maps the criteria sort key to its storage field. Newest is
// always descending regardless of the requested direction. An unrecognized
// non-empty key passes through as a literal field name.
func resolveSort(c *criteria.Criteria) (field string, desc bool) {
	desc = c.SortDirection == criteria.Desc

	switch c.SortBy {
	case criteria.SortPrice:
		return predicate.FieldPrice, desc
	case criteria.SortRating:
		return predicate.FieldRating, desc
	case criteria.SortPopularity:
		return predicate.FieldEnrolled, desc
	case criteria.SortNewest:
		return predicate.FieldCreatedAt, true
	case criteria.SortDuration:
		return predicate.FieldDuration, desc
	case criteria.SortCity:
		return predicate.FieldCity, desc
	case criteria.SortState:
		return predicate.FieldState, desc
	case "":
		return predicate.FieldCreatedAt, true
	default:
		return c.SortBy, desc
	}
}

func window(total, offset, size int) (start, end int) {
	start = offset
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}
