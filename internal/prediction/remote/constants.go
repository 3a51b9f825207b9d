package remote

import "time"

const (
	defaultBaseURL     = "http://127.0.0.1:8000"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512

	upstreamName = "ml-service"

	// The model was trained with "field" for a bowl-first toss choice.
	upstreamBowl = "field"
)
