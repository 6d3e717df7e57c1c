package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// errorResponse is the JSON body sent with a failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// fieldError describes one invalid field in a submitted change.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldErrorResponse is the JSON body sent when a submitted change fails
// validation.
type fieldErrorResponse struct {
	Errors []fieldError `json:"errors"`
}

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderStatus(http.StatusNotFound)(w, r)
}

// renderJSON renders a JSON response with the given status code and value.
func renderJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

// renderError maps an error to its HTTP status and renders it as JSON.
// Unrecognized errors are logged and answered with a plain 500 so internal
// detail never leaks to the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	switch {
	case errors.Is(err, proto.ErrAffiliationNotFound),
		errors.Is(err, proto.ErrUserNotFound),
		errors.Is(err, proto.ErrTokenNotFound),
		errors.Is(err, proto.ErrWebhookNotFound):
		renderJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, proto.ErrNotAuthenticated),
		errors.Is(err, proto.ErrUnauthorized),
		errors.Is(err, proto.ErrTokenExpired),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidPassword):
		renderJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	default:
		logger.Error("request failed", "err", err)
		renderStatus(http.StatusInternalServerError)(w, r)
	}
}
