package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
	"github.com/preston-bernstein/cricket-insights-service/internal/testutil"
)

func TestWriteErrorIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	logger, _ := testutil.NewBufferLogger()

	req.Header.Set("X-Request-ID", "abc123")

	rr := testutil.ServeRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTeapot, "boom", logger)
	}), req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content type json, got %s", got)
	}
	body := rr.Body.String()
	if !bytes.Contains([]byte(body), []byte("abc123")) {
		t.Fatalf("expected requestId in body, got %s", body)
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, make(chan int), logger)
	}), http.MethodGet, "/encode-error", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status written even on encode error, got %d", rr.Code)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected logger to record encode error")
	}
}

func TestWriteErrorFallsBackToHeaderRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "header-id")
	writeError(rr, req, http.StatusTeapot, "boom", logger)
	if !bytes.Contains(rr.Body.Bytes(), []byte("header-id")) {
		t.Fatalf("expected header request id used when context missing")
	}
}

func TestWriteServiceErrorAsUsesRouteMessage(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict-live", nil)
	req.Header.Set("X-Request-ID", "live-1")
	writeServiceErrorAs(rr, req, fmt.Errorf("%w: /predict/live returned no progression", prediction.ErrUpstream), livePredictionFailed, logger)
	testutil.AssertErrorBody(t, rr, http.StatusInternalServerError, livePredictionFailed)

	rr = httptest.NewRecorder()
	writeServiceErrorAs(rr, req, domain.NotFound("venue", "eden"), livePredictionFailed, logger)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestWriteServiceErrorMapsStatuses(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", domain.Invalid("team1Id and team2Id must differ"), http.StatusBadRequest, "team1Id and team2Id must differ"},
		{"not found", domain.NotFound("team", "xyz"), http.StatusNotFound, "not found"},
		{"upstream", fmt.Errorf("%w: status 500", prediction.ErrUpstream), http.StatusInternalServerError, prediction.UpstreamMessage},
		{"internal", errors.New("disk I/O error"), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		writeServiceError(rr, req, tc.err, logger)
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rr.Code)
		}
		var body map[string]string
		testutil.DecodeJSON(t, rr, &body)
		if body["error"] != tc.msg {
			t.Fatalf("%s: expected message %q, got %q", tc.name, tc.msg, body["error"])
		}
	}
	if strings.Contains(buf.String(), "team1Id and team2Id must differ") {
		t.Fatalf("validation failures should not be logged as errors")
	}
	if !strings.Contains(buf.String(), "disk I/O error") {
		t.Fatalf("expected internal cause logged, got %s", buf.String())
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	payload := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/teams", strings.NewReader(payload))

	var dest domain.Team
	err := decodeJSON(rr, req, &dest, false)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(domain.ValidationMessage(err), "exceeds") {
		t.Fatalf("unexpected message %q", domain.ValidationMessage(err))
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	var dest map[string]any
	req := httptest.NewRequest(http.MethodPost, "/api/predict-live", strings.NewReader(""))
	if err := decodeJSON(httptest.NewRecorder(), req, &dest, true); err != nil {
		t.Fatalf("expected empty body allowed, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/predict-match", strings.NewReader(""))
	err := decodeJSON(httptest.NewRecorder(), req, &dest, false)
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "empty body") {
		t.Fatalf("expected empty body rejected, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/predict-match", strings.NewReader(`{"team1Id": 5}`))
	var typed domain.PredictionRequest
	err = decodeJSON(httptest.NewRecorder(), req, &typed, false)
	if err == nil || !strings.Contains(err.Error(), "team1Id") {
		t.Fatalf("expected wrong type reported, got %v", err)
	}
}
