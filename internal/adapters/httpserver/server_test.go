package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/adapters/keyword"
	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/normalizer"
	"github.com/mikey/email-categorizer/internal/whitelist"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := zap.NewNop()
	service := core.NewCategorizerService(
		normalizer.New(0, logger),
		keyword.NewClassifier(logger),
		keyword.NewClassifier(logger),
		nil,
		whitelist.NewChecker(nil, logger),
		core.NewStatistics(),
		logger,
		false,
		0,
		time.Second,
	)

	return NewServer(service, logger, "127.0.0.1", 0, "email-ai-categorizer-backend")
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.setupRouter().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["status"] != "healthy" {
		t.Errorf("status field = %v", payload["status"])
	}
	if payload["service"] != "email-ai-categorizer-backend" {
		t.Errorf("service field = %v", payload["service"])
	}
}

func TestCategorizeEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantError    string
		wantCategory string
	}{
		{
			name:         "promotional email categorized as delete",
			body:         `{"subject":"50% OFF Sale - Limited Time!","sender":"promo@deals.example.com","body":"Click here to unsubscribe"}`,
			wantStatus:   http.StatusOK,
			wantCategory: "DELETE",
		},
		{
			name:         "job email categorized",
			body:         `{"subject":"Interview invitation","sender":"recruiting@corp.example.com","body":"We would like to talk."}`,
			wantStatus:   http.StatusOK,
			wantCategory: "JOB",
		},
		{
			name:       "missing sender",
			body:       `{"subject":"Your OTP is 482913"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required field: sender",
		},
		{
			name:       "missing subject",
			body:       `{"sender":"a@b.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required field: subject",
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  "No data provided",
		},
		{
			name:       "malformed JSON",
			body:       `{"subject": "x"`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, newTestServer(t), http.MethodPost, "/categorize", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			payload := decodeBody(t, rec)
			if tt.wantError != "" {
				if payload["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", payload["error"], tt.wantError)
				}
				return
			}

			if payload["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %s", payload["category"], tt.wantCategory)
			}
			processedAt, ok := payload["processed_at"].(string)
			if !ok {
				t.Fatalf("processed_at missing: %v", payload)
			}
			if _, err := time.Parse(time.RFC3339, processedAt); err != nil {
				t.Errorf("processed_at %q is not RFC3339: %v", processedAt, err)
			}
		})
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := []string{"DELETE", "JOB", "READ", "IMPORTANT"}
	if len(payload.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", payload.Categories, want)
	}
	for i, label := range want {
		if payload.Categories[i] != label {
			t.Errorf("categories[%d] = %s, want %s", i, payload.Categories[i], label)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/categorize",
		`{"subject":"Hello","sender":"a@b.com","body":"just checking in"}`)

	rec := doRequest(t, s, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["total_requests"].(float64) != 1 {
		t.Errorf("total_requests = %v, want 1", payload["total_requests"])
	}
	if payload["successful_categorizations"].(float64) != 1 {
		t.Errorf("successful_categorizations = %v, want 1", payload["successful_categorizations"])
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["error"] != "Endpoint not found" {
		t.Errorf("error = %v", payload["error"])
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodOptions, "/categorize", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing permissive CORS origin header")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", rec.Body.String())
	}
}
