package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const internalErrorMessage = "internal server error"

// Client-facing text for adapter failures, per route.
const (
	livePredictionFailed = "Failed to generate live prediction"
	venueDetailsFailed   = "Failed to fetch venue details"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps service errors to statuses. Upstream and internal
// causes are logged and replaced by a fixed message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	writeServiceErrorAs(w, r, err, prediction.UpstreamMessage, fallback)
}

// writeServiceErrorAs is writeServiceError with a route-specific message for
// adapter failures, which surface as 500.
func writeServiceErrorAs(w http.ResponseWriter, r *http.Request, err error, upstreamMessage string, fallback *slog.Logger) {
	logger := loggerFromContext(r, fallback)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, domain.ValidationMessage(err), logger)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found", logger)
	case errors.Is(err, prediction.ErrUpstream):
		logging.Error(logger, "upstream request failed", err)
		writeError(w, r, http.StatusInternalServerError, upstreamMessage, logger)
	default:
		logging.Error(logger, "request failed", err)
		writeError(w, r, http.StatusInternalServerError, internalErrorMessage, logger)
	}
}

// decodeJSON reads a size-limited JSON body into dest. An empty body is
// accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.Invalid("request body exceeds %d bytes", maxBodyBytes)
	}
	return domain.Invalid("invalid JSON body: %s", jsonProblem(err))
}

func jsonProblem(err error) string {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "empty body"
	case errors.As(err, &syntax):
		return fmt.Sprintf("syntax error at offset %d", syntax.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %s has the wrong type", typeErr.Field)
	default:
		return "malformed"
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
