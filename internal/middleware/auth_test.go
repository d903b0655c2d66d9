package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"glow/internal/domain"
	"glow/internal/domain/models"
	"glow/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

// fakeVerifier accepts one token string and maps it to a subject.
type fakeVerifier struct {
	validToken string
	subject    string
}

func (v *fakeVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	if tokenString != v.validToken {
		return nil, domain.ErrUnauthorized
	}
	return &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.subject},
	}, nil
}

func (v *fakeVerifier) Close() error { return nil }

func authedHandler(t *testing.T, wantUserID string) (http.Handler, *bool) {
	t.Helper()
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if got := httputil.GetUserID(r); got != wantUserID {
			t.Errorf("user id in context = %q, want %q", got, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuth_ValidToken(t *testing.T) {
	next, called := authedHandler(t, "user-42")
	mw := Auth(&fakeVerifier{validToken: "good", subject: "user-42"})(next)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if !*called {
		t.Fatal("handler not reached with a valid token")
	}
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := authedHandler(t, "")
			mw := Auth(&fakeVerifier{validToken: "good"})(next)

			req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if *called {
				t.Error("handler reached without valid credentials")
			}
		})
	}
}

func TestAuth_PublicPaths(t *testing.T) {
	for _, path := range []string{"/health", "/api/guest/messages"} {
		next, called := authedHandler(t, "")
		mw := Auth(&fakeVerifier{})(next)

		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if !*called {
			t.Errorf("%s blocked without a token", path)
		}
	}
}
