package domain

import "time"

// Team is an IPL franchise.
type Team struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	ShortName string  `json:"shortName" yaml:"shortName"`
	Color     string  `json:"color" yaml:"color"`
	Logo      *string `json:"logo" yaml:"logo"`
}

// Venue is a ground along with its precomputed batting conditions.
type Venue struct {
	ID                 string  `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	City               string  `json:"city" yaml:"city"`
	Capacity           int     `json:"capacity" yaml:"capacity"`
	AvgFirstInnings    int     `json:"avgFirstInnings" yaml:"avgFirstInnings"`
	BoundaryPercentage float64 `json:"boundaryPercentage" yaml:"boundaryPercentage"`
	SixRate            float64 `json:"sixRate" yaml:"sixRate"`
}

// Match records a fixture set up from the dashboard. Result and margin stay
// nil until a result is known.
type Match struct {
	ID           string       `json:"id"`
	Team1ID      string       `json:"team1Id"`
	Team2ID      string       `json:"team2Id"`
	VenueID      string       `json:"venueId"`
	TossWinner   string       `json:"tossWinner"`
	TossDecision TossDecision `json:"tossDecision"`
	Result       *string      `json:"result"`
	Margin       *string      `json:"margin"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Factors is the explanatory breakdown attached to a prediction. The values
// are signed percentage contributions and are not required to sum to the
// overall swing.
type Factors struct {
	VenueAdvantage float64 `json:"venueAdvantage"`
	TossDecision   float64 `json:"tossDecision"`
	RecentForm     float64 `json:"recentForm"`
	HeadToHead     float64 `json:"headToHead"`
}

// PredictionResult is what a predictor produces for a request.
type PredictionResult struct {
	Team1WinProbability float64 `json:"team1WinProbability"`
	Team2WinProbability float64 `json:"team2WinProbability"`
	PredictedWinner     string  `json:"predictedWinner"`
	Margin              string  `json:"expectedMargin"`
	Factors             Factors `json:"factors"`
}

// Prediction is one entry of the append-only prediction log.
type Prediction struct {
	ID           string       `json:"id"`
	Team1ID      string       `json:"team1Id"`
	Team2ID      string       `json:"team2Id"`
	VenueID      string       `json:"venueId"`
	TossWinner   string       `json:"tossWinner"`
	TossDecision TossDecision `json:"tossDecision"`
	MatchID      *string      `json:"matchId"`
	PredictionResult
	CreatedAt time.Time `json:"createdAt"`
}

// NewPrediction stamps a result with the request inputs, a fresh id and the creation time.
func NewPrediction(req PredictionRequest, result PredictionResult, now time.Time) Prediction {
	return Prediction{
		ID:               NewID(),
		Team1ID:          req.Team1ID,
		Team2ID:          req.Team2ID,
		VenueID:          req.VenueID,
		TossWinner:       req.TossWinner,
		TossDecision:     req.TossDecision,
		PredictionResult: result,
		CreatedAt:        now.UTC(),
	}
}

// NewMatch builds a match record for the request with no result yet.
func NewMatch(req PredictionRequest, now time.Time) Match {
	return Match{
		ID:           NewID(),
		Team1ID:      req.Team1ID,
		Team2ID:      req.Team2ID,
		VenueID:      req.VenueID,
		TossWinner:   req.TossWinner,
		TossDecision: req.TossDecision,
		CreatedAt:    now.UTC(),
	}
}
