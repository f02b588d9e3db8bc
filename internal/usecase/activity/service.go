// Package activity manages the listing lifecycle: creation, lookup,
// visibility flips and the interest feed.
package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classverse/discovery/internal/domain"
	domact "github.com/classverse/discovery/internal/domain/activity"
	"github.com/classverse/discovery/internal/domain/search/criteria"
	"github.com/classverse/discovery/internal/domain/search/page"
	"github.com/classverse/discovery/internal/domain/search/predicate"
)

// Service manages listings.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates an activity service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates, normalizes and stores a new listing. New listings are
// active immediately; visibility is up to the tutor's Public flag.
func (s *Service) Create(ctx context.Context, a *domact.Activity) (domact.Activity, error) {
	if strings.TrimSpace(a.Title) == "" {
		return domact.Activity{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(a.Subject) == "" {
		return domact.Activity{}, fmt.Errorf("%w: subject is required", domain.ErrValidation)
	}
	if strings.TrimSpace(a.TutorID) == "" {
		return domact.Activity{}, fmt.Errorf("%w: tutor id is required", domain.ErrValidation)
	}

	a.ID = uuid.NewString()
	a.Normalize()
	a.Active = true
	now := s.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.repo.Put(ctx, a); err != nil {
		return domact.Activity{}, fmt.Errorf("create listing: %w", err)
	}
	return *a, nil
}

// Get returns a listing by ID.
func (s *Service) Get(ctx context.Context, id string) (domact.Activity, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a listing.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetActive flips the listing's active flag. Inactive listings drop out of
// every discovery path.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (domact.Activity, error) {
	return s.update(ctx, id, func(a *domact.Activity) { a.Active = active })
}

// SetPublic flips the listing's public flag.
func (s *Service) SetPublic(ctx context.Context, id string, public bool) (domact.Activity, error) {
	return s.update(ctx, id, func(a *domact.Activity) { a.Public = public })
}

func (s *Service) update(
	ctx context.Context, id string, mutate func(a *domact.Activity),
) (domact.Activity, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return domact.Activity{}, err
	}
	mutate(&a)
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, &a); err != nil {
		return domact.Activity{}, fmt.Errorf("update listing %s: %w", id, err)
	}
	return a, nil
}

// Feed returns visible listings matching any of the caller's interests by
// subject or tag, most popular first.
func (s *Service) Feed(
	ctx context.Context, interests []string, pageNumber, size int,
) (page.Page[domact.Activity], error) {
	cleaned := make([]string, 0, len(interests))
	for _, in := range interests {
		if v := strings.TrimSpace(in); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return page.Page[domact.Activity]{}, fmt.Errorf("%w: at least one interest is required", domain.ErrValidation)
	}

	if pageNumber < 0 {
		pageNumber = 0
	}
	if size <= 0 {
		size = criteria.DefaultPageSize
	}
	if size > criteria.MaxPageSize {
		size = criteria.MaxPageSize
	}

	expr := predicate.BuildFeed(cleaned)

	items, err := s.repo.Find(ctx, expr, predicate.FieldEnrolled, true, pageNumber*size, size)
	if err != nil {
		return page.Page[domact.Activity]{}, fmt.Errorf("feed: %w", err)
	}
	total, err := s.repo.Count(ctx, expr)
	if err != nil {
		return page.Page[domact.Activity]{}, fmt.Errorf("feed count: %w", err)
	}

	return page.New(items, pageNumber, size, total), nil
}
