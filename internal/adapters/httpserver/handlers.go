package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
)

// categorizeRequest is the POST /categorize payload. Subject and sender are
// pointers so an absent field can be told apart from an empty one.
type categorizeRequest struct {
	Subject *string `json:"subject"`
	Sender  *string `json:"sender"`
	Body    string  `json:"body"`
	Snippet string  `json:"snippet"`
}

// categorizeResponse is the POST /categorize success payload
type categorizeResponse struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	ProcessedAt string  `json:"processed_at"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.serviceName,
	})
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return
	}

	var req categorizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if field, err := validateRequest(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: " + field})
		return
	}

	raw := &core.RawEmail{
		Subject: *req.Subject,
		Sender:  *req.Sender,
		Body:    req.Body,
		Snippet: req.Snippet,
	}

	result := s.service.Categorize(r.Context(), raw)

	writeJSON(w, http.StatusOK, categorizeResponse{
		Category:    string(result.Category),
		Confidence:  result.Confidence,
		ProcessedAt: result.CategorizedAt.UTC().Format(time.RFC3339),
	})
}

// validateRequest checks the required fields, returning the name of the
// first missing one
func validateRequest(req *categorizeRequest) (string, error) {
	if req.Subject == nil {
		return "subject", errors.New("missing field")
	}
	if req.Sender == nil {
		return "sender", errors.New("missing field")
	}
	return "", nil
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	categories := core.Categories()
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = string(c)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": labels})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.service.Stats().Snapshot()
	writeJSON(w, http.StatusOK, snapshot)
}

// recoverer converts a handler panic into a JSON 500 instead of chi's
// default plain-text response
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Panic while handling request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
