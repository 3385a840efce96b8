package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/c360studio/wikioutline/fetch"
)

// apiInfo is the static description served at the root endpoint.
var apiInfo = map[string]any{
	"message": "Wikipedia Country Outline API",
	"version": Version,
	"endpoints": map[string]string{
		"/api/outline": "Get Wikipedia outline for a country (query param: ?country=...)",
		"/api/page":    "Get the full Wikipedia article as Markdown (query param: ?country=...)",
		"/health":      "Health check endpoint",
		"/metrics":     "Prometheus metrics",
	},
	"example": "/api/outline?country=India",
}

// handleRoot serves the static API description.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, apiInfo)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// countryParam validates the country query parameter. A missing parameter
// is a request-validation failure (422); a present but blank value is a
// bad request (400).
func countryParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !r.URL.Query().Has("country") {
		writeDetail(w, http.StatusUnprocessableEntity, "country query parameter is required")
		return "", false
	}
	country := r.URL.Query().Get("country")
	if strings.TrimSpace(country) == "" {
		writeDetail(w, http.StatusBadRequest, "Country parameter cannot be empty")
		return "", false
	}
	return country, true
}

// handleOutline serves GET /api/outline?country=<name>.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	country, ok := countryParam(w, r)
	if !ok {
		return
	}

	md, err := s.service.Outline(r.Context(), country)
	if err != nil {
		s.writeError(w, r, country, err)
		return
	}

	writeMarkdown(w, md)
}

// handlePage serves GET /api/page?country=<name>.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	country, ok := countryParam(w, r)
	if !ok {
		return
	}

	md, err := s.service.Page(r.Context(), country)
	if err != nil {
		s.writeError(w, r, country, err)
		return
	}

	writeMarkdown(w, md)
}

// handleCacheClear serves DELETE /api/cache[?url=<url>]. With a url
// parameter only that entry is removed; without one the whole cache is
// wiped. Clearing a missing entry succeeds.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if url := r.URL.Query().Get("url"); url != "" {
		if err := s.cache.Clear(url); err != nil {
			s.logger.Error("cache clear failed", "url", url, "error", err)
			writeDetail(w, http.StatusInternalServerError, "failed to clear cache entry")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cleared": url})
		return
	}

	if err := s.cache.ClearAll(); err != nil {
		s.logger.Error("cache clear failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": "all"})
}

// writeError maps pipeline failures to HTTP status codes: upstream 404 to
// 404, other upstream statuses forwarded as-is, transport failures to 503,
// everything unanticipated to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, country string, err error) {
	var statusErr *fetch.StatusError
	var netErr *fetch.NetworkError

	switch {
	case errors.Is(err, ErrNoContent):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("No content found for country: %s", country))

	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusNotFound {
			writeDetail(w, http.StatusNotFound, fmt.Sprintf("Wikipedia page not found for country: %s", country))
			return
		}
		writeDetail(w, statusErr.Code, fmt.Sprintf("Error fetching Wikipedia page: %v", err))

	case errors.As(err, &netErr):
		writeDetail(w, http.StatusServiceUnavailable, fmt.Sprintf("Network error while fetching Wikipedia: %v", err))

	default:
		s.logger.Error("request failed", "country", country, "error", err, "path", r.URL.Path)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing useful to do.
		_ = err
	}
}

// writeDetail writes an error response in the {"detail": ...} shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeMarkdown writes a successful Markdown body.
func writeMarkdown(w http.ResponseWriter, md string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}
