package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/cricket-insights-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-insights-service/internal/testutil"
)

type stubDashboard struct{}

func (stubDashboard) Mount(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html></html>"))
	})
}

func newRouter(t *testing.T, token string) (http.Handler, testutil.Services) {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	svcs := testutil.NewServices(t, nil, nil)
	cfg := RouterConfig{
		Handler:   handlers.NewHandler(svcs.Insights, svcs.Predictions, logger, nil),
		Dashboard: stubDashboard{},
		Logger:    logger,
		Metrics:   svcs.Metrics,
	}
	if token != "" {
		cfg.Admin = handlers.NewAdminHandler(svcs.Insights, token, logger)
	}
	return NewRouter(cfg), svcs
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router, _ := newRouter(t, "")

	cases := map[string]int{
		"/health":                      http.StatusOK,
		"/ready":                       http.StatusOK,
		"/":                            http.StatusOK,
		"/api/teams":                   http.StatusOK,
		"/api/teams/mi":                http.StatusOK,
		"/api/teams/gt":                http.StatusNotFound,
		"/api/venues":                  http.StatusOK,
		"/api/venues/wankhede":         http.StatusOK,
		"/api/head-to-head/mi/csk":     http.StatusOK,
		"/api/head-to-head/kkr/rr":     http.StatusNotFound,
		"/api/team-stats/csk":          http.StatusOK,
		"/api/venue-stats/wankhede":    http.StatusOK,
		"/api/venue-stats/wankhede/mi": http.StatusOK,
		"/api/venue-details/eden":      http.StatusOK,
		"/api/venue-details/lords":     http.StatusNotFound,
		"/api/matches":                 http.StatusOK,
		"/api/matches/none":            http.StatusNotFound,
		"/api/predictions":             http.StatusOK,
		"/api/predictions/none":        http.StatusNotFound,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router, _ := newRouter(t, "")

	for _, path := range []string{"/does-not-exist", "/api/unknown", "/api/teams/mi/extra"} {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 for unknown route, got %d", path, rr.Code)
		}
		if got := rr.Header().Get("Content-Type"); got != "application/json" {
			t.Fatalf("%s: expected json error body, got %s", path, got)
		}
	}
}

func TestRouterWrongMethodReturns405(t *testing.T) {
	router, _ := newRouter(t, "")

	rr := testutil.Serve(router, http.MethodGet, "/api/predict-match", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)

	rr = testutil.Serve(router, http.MethodDelete, "/api/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterPredictRoundTrip(t *testing.T) {
	router, _ := newRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/predict-match",
		strings.NewReader(`{"team1Id":"kkr","team2Id":"rcb","venueId":"eden","tossWinner":"rcb","tossDecision":"bowl"}`))
	rr := testutil.ServeRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var body struct {
		Team1WinProbability float64 `json:"team1WinProbability"`
		PredictedWinner     string  `json:"predictedWinner"`
	}
	testutil.DecodeJSON(t, rr, &body)
	// 50 + home 12 - toss 5
	if body.Team1WinProbability != 57 || body.PredictedWinner != "kkr" {
		t.Fatalf("unexpected prediction %+v", body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterAdminRoutesOnlyWithToken(t *testing.T) {
	body := `{"id":"gt","name":"Gujarat Titans"}`

	withoutAdmin, _ := newRouter(t, "")
	rr := testutil.ServeRequest(withoutAdmin, httptest.NewRequest(http.MethodPost, "/api/admin/teams", strings.NewReader(body)))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	withAdmin, _ := newRouter(t, "letmein")
	rr = testutil.ServeRequest(withAdmin, httptest.NewRequest(http.MethodPost, "/api/admin/teams", strings.NewReader(body)))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/teams", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer letmein")
	rr = testutil.ServeRequest(withAdmin, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.Serve(withAdmin, http.MethodGet, "/api/teams/gt", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRouterRecordsRoutePatternMetrics(t *testing.T) {
	router, svcs := newRouter(t, "")

	testutil.Serve(router, http.MethodGet, "/api/teams/mi", nil)
	testutil.Serve(router, http.MethodGet, "/api/teams/csk", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/predict-match",
		strings.NewReader(`{"team1Id":"mi","team2Id":"csk","venueId":"wankhede","tossWinner":"mi","tossDecision":"bat"}`))
	testutil.ServeRequest(router, req)

	if got := svcs.Metrics.Predictions("heuristic"); got != 1 {
		t.Fatalf("expected one heuristic prediction recorded, got %d", got)
	}
}
