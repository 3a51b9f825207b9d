// Package remote delegates predictions and historical stats to the external
// model-serving process.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
	"github.com/preston-bernstein/cricket-insights-service/internal/prediction"
)

// Config controls how the client reaches the ML service.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Recorder
}

// Client calls the ML service over HTTP. Every failure is reported once,
// wrapped in prediction.ErrUpstream, with no retry.
type Client struct {
	baseURL    string
	httpClient httpDoer
	metrics    *metrics.Recorder
}

var _ prediction.Predictor = (*Client)(nil)

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		metrics:    cfg.Metrics,
	}
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict posts the match setup to /predict.
func (c *Client) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error) {
	var resp predictResponse
	found, err := c.doJSON(ctx, http.MethodPost, "/predict", toUpstreamRequest(req), &resp)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	if !found {
		return domain.PredictionResult{}, fmt.Errorf("%w: /predict returned no prediction", prediction.ErrUpstream)
	}
	return mapPrediction(req, resp), nil
}

// PredictLive posts the match state to /predict/live and returns the
// probability progression.
func (c *Client) PredictLive(ctx context.Context, state domain.MatchState) ([]float64, error) {
	var points []float64
	found, err := c.doJSON(ctx, http.MethodPost, "/predict/live", state, &points)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: /predict/live returned no progression", prediction.ErrUpstream)
	}
	if points == nil {
		points = []float64{}
	}
	return points, nil
}

// HeadToHead fetches the record for a pair. A null body or 404 reports not found.
func (c *Client) HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error) {
	var resp *headToHeadResponse
	found, err := c.doJSON(ctx, http.MethodGet, "/head-to-head/"+url.PathEscape(team1ID)+"/"+url.PathEscape(team2ID), nil, &resp)
	if err != nil || !found || resp == nil {
		return domain.HeadToHeadStats{}, false, err
	}
	if resp.Team1ID == "" {
		resp.Team1ID = team1ID
	}
	if resp.Team2ID == "" {
		resp.Team2ID = team2ID
	}
	return mapHeadToHead(*resp), true, nil
}

// TeamStats fetches a team's form summary.
func (c *Client) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error) {
	var resp *teamStatsResponse
	found, err := c.doJSON(ctx, http.MethodGet, "/team-stats/"+url.PathEscape(teamID), nil, &resp)
	if err != nil || !found || resp == nil {
		return domain.TeamStats{}, false, err
	}
	if resp.TeamID == "" {
		resp.TeamID = teamID
	}
	return mapTeamStats(*resp), true, nil
}

// VenueStats fetches every team's record at a venue.
func (c *Client) VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error) {
	var resp []venueStatsResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/venue-stats/"+url.PathEscape(venueID), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.VenueStats, 0, len(resp))
	for _, r := range resp {
		if r.VenueID == "" {
			r.VenueID = venueID
		}
		out = append(out, mapVenueStats(r))
	}
	return out, nil
}

// VenueDetails fetches batting conditions for a venue.
func (c *Client) VenueDetails(ctx context.Context, venueID string) (domain.VenueDetails, bool, error) {
	var resp *venueDetailsResponse
	found, err := c.doJSON(ctx, http.MethodGet, "/venue-details/"+url.PathEscape(venueID), nil, &resp)
	if err != nil || !found || resp == nil {
		return domain.VenueDetails{}, false, err
	}
	return mapVenueDetails(venueID, *resp), true, nil
}

// Health checks that the service answers /health with 200.
func (c *Client) Health(ctx context.Context) error {
	found, err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: /health not found", prediction.ErrUpstream)
	}
	return nil
}

// doJSON sends one request and decodes a 200 body into out. It returns
// found=false for 404 and for a literal null body.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) (found bool, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordUpstreamAttempt(upstreamName, time.Since(start), err)
	}()

	req, err := c.buildRequest(ctx, method, path, payload)
	if err != nil {
		return false, fmt.Errorf("%w: build %s: %v", prediction.ErrUpstream, path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %s %s: %v", prediction.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, fmt.Errorf("%w: %s: unexpected status %d: %s", prediction.ErrUpstream, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return true, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", prediction.ErrUpstream, path, err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", prediction.ErrUpstream, path, err)
	}
	return true, nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
