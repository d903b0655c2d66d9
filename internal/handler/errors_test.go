package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"glow/internal/domain"
	"glow/internal/gateway/gemini"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: message is required", domain.ErrValidation), http.StatusBadRequest},
		{"quota with limit", &domain.QuotaExceededError{Limit: 10}, http.StatusTooManyRequests},
		{"not found", fmt.Errorf("conversation 7: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"gateway timeout", fmt.Errorf("%w: deadline", gemini.ErrTimeout), http.StatusGatewayTimeout},
		{"gateway transport", fmt.Errorf("%w: refused", gemini.ErrTransport), http.StatusBadGateway},
		{"gateway rejection", fmt.Errorf("%w: status 403", gemini.ErrRejected), http.StatusBadGateway},
		{"gateway malformed", fmt.Errorf("%w: decode", gemini.ErrMalformed), http.StatusBadGateway},
		{"infrastructure down", fmt.Errorf("%w: redis", domain.ErrUnavailable), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("something odd"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q", ct)
			}
		})
	}
}

func TestHandleError_QuotaCarriesLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, &domain.QuotaExceededError{Limit: 3})

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if limit, ok := body["limit"].(float64); !ok || int(limit) != 3 {
		t.Errorf("limit field = %v, want 3", body["limit"])
	}
}
