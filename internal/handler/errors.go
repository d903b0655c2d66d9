package handler

import (
	"errors"
	"net/http"

	"glow/internal/domain"
	"glow/internal/gateway/gemini"
	"glow/internal/httputil"
)

// handleError converts domain and gateway errors to HTTP responses.
//
// Quota and validation failures return clear, actionable messages; gateway
// and infrastructure failures return a generic message (full detail is
// logged where the failure happened).
func handleError(w http.ResponseWriter, err error) {
	var quotaErr *domain.QuotaExceededError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &quotaErr):
		httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, quotaErr.Error(),
			map[string]interface{}{"limit": quotaErr.Limit})
	case errors.Is(err, domain.ErrQuotaExceeded):
		httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, gemini.ErrTimeout):
		httputil.RespondError(w, http.StatusGatewayTimeout, "the assistant took too long to respond, please try again")
	case errors.Is(err, gemini.ErrTransport),
		errors.Is(err, gemini.ErrRejected),
		errors.Is(err, gemini.ErrMalformed):
		httputil.RespondError(w, http.StatusBadGateway, "the assistant is unavailable right now, please try again")
	case errors.Is(err, domain.ErrUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
