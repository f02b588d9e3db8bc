// Package chi exposes the discovery API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/classverse/discovery/internal/domain"
	activityuc "github.com/classverse/discovery/internal/usecase/activity"
	searchuc "github.com/classverse/discovery/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pinger reports backing-store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers for the discovery API.
type Server struct {
	activities    *activityuc.Service
	search        *searchuc.Service
	pinger        Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	activities *activityuc.Service,
	search *searchuc.Service,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		activities: activities,
		search:     search,
		pinger:     pinger,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrActivityNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrMissingOrigin, http.StatusBadRequest, codeMissingOrigin),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/activities", func(r chi.Router) {
		r.Post("/", s.requireRole(RoleTutor, s.createActivity))
		r.Get("/search", s.searchActivities)
		r.Post("/search", s.searchActivitiesBody)
		r.Get("/nearby", s.searchNearby)
		r.Get("/smart-search", s.smartSearch)
		r.Get("/feed", s.feed)
		r.Get("/{id}", s.getActivity)
		r.Delete("/{id}", s.requireRole(RoleTutor, s.deleteActivity))
		r.Patch("/{id}/lifecycle", s.requireRole(RoleTutor, s.updateLifecycle))
	})
	r.Post("/admin/relevance/rebuild", s.requireRole(RoleAdmin, s.rebuildRelevance))
	r.Get("/healthz", s.healthz)
	r.Get("/metrics", s.metrics)
}

// createActivity handles POST /activities.
func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	a := req.toDomain()
	created, err := s.activities.Create(r.Context(), &a)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, activityToAPI(created))
}

// getActivity handles GET /activities/{id}.
func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.activities.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityToAPI(a))
}

// deleteActivity handles DELETE /activities/{id}.
func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.activities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type lifecycleRequest struct {
	Active *bool `json:"active,omitempty"`
	Public *bool `json:"public,omitempty"`
}

// updateLifecycle handles PATCH /activities/{id}/lifecycle. Either flag may
// be present; both present apply active first.
func (s *Server) updateLifecycle(w http.ResponseWriter, r *http.Request) {
	var req lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Active == nil && req.Public == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "at least one of active or public is required")
		return
	}

	id := chi.URLParam(r, "id")
	var last any
	if req.Active != nil {
		a, err := s.activities.SetActive(r.Context(), id, *req.Active)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		last = activityToAPI(a)
	}
	if req.Public != nil {
		a, err := s.activities.SetPublic(r.Context(), id, *req.Public)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		last = activityToAPI(a)
	}

	writeJSON(w, http.StatusOK, last)
}

// searchActivities handles GET /activities/search.
func (s *Server) searchActivities(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromQuery(r)

	pg, err := s.search.Search(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityPageToAPI(pg))
}

// searchActivitiesBody handles POST /activities/search.
func (s *Server) searchActivitiesBody(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	pg, err := s.search.Search(r.Context(), req.toCriteria())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityPageToAPI(pg))
}

// searchNearby handles GET /activities/nearby.
func (s *Server) searchNearby(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromQuery(r)

	pg, err := s.search.SearchNear(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hitPageToAPI(pg))
}

// smartSearch handles GET /activities/smart-search.
func (s *Server) smartSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	if raw == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	c := criteriaFromQuery(r)
	c.Query = ""

	parsed, pg, err := s.search.SearchSmart(r.Context(), raw, c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"interpretation": parsed,
		"results":        hitPageToAPI(pg),
	})
}

// feed handles GET /activities/feed.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	interests := csvParam(q.Get("interests"))

	pageNumber, size := 0, 0
	if v := intParam(q.Get("page")); v != nil {
		pageNumber = *v
	}
	if v := intParam(q.Get("size")); v != nil {
		size = *v
	}

	pg, err := s.activities.Feed(r.Context(), interests, pageNumber, size)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, activityPageToAPI(pg))
}

// rebuildRelevance handles POST /admin/relevance/rebuild.
func (s *Server) rebuildRelevance(w http.ResponseWriter, r *http.Request) {
	n, err := s.search.BuildRelevanceIndex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"documents": n})
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"store":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrActivityNotFound,
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrMissingOrigin,
		domain.ErrForbidden,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternal, msg)
}
