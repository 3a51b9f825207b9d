package domain

import "strings"

// TossDecision is the choice made by the side that wins the toss.
type TossDecision string

const (
	TossBat  TossDecision = "bat"
	TossBowl TossDecision = "bowl"
)

// Valid reports whether d is one of the known decisions.
func (d TossDecision) Valid() bool {
	return d == TossBat || d == TossBowl
}

// MissingFieldsMessage is returned when any prediction input is absent.
const MissingFieldsMessage = "Missing required fields: team1Id, team2Id, venueId, tossWinner, tossDecision"

// PredictionRequest is the input to both predictor implementations.
type PredictionRequest struct {
	Team1ID      string       `json:"team1Id"`
	Team2ID      string       `json:"team2Id"`
	VenueID      string       `json:"venueId"`
	TossWinner   string       `json:"tossWinner"`
	TossDecision TossDecision `json:"tossDecision"`
}

// Normalize trims whitespace and lower-cases the toss decision.
func (r PredictionRequest) Normalize() PredictionRequest {
	return PredictionRequest{
		Team1ID:      strings.TrimSpace(r.Team1ID),
		Team2ID:      strings.TrimSpace(r.Team2ID),
		VenueID:      strings.TrimSpace(r.VenueID),
		TossWinner:   strings.TrimSpace(r.TossWinner),
		TossDecision: TossDecision(strings.ToLower(strings.TrimSpace(string(r.TossDecision)))),
	}
}

// Validate checks presence first, then consistency between the fields.
func (r PredictionRequest) Validate() error {
	if r.Team1ID == "" || r.Team2ID == "" || r.VenueID == "" || r.TossWinner == "" || r.TossDecision == "" {
		return Invalid(MissingFieldsMessage)
	}
	if r.Team1ID == r.Team2ID {
		return Invalid("team1Id and team2Id must differ")
	}
	if r.TossWinner != r.Team1ID && r.TossWinner != r.Team2ID {
		return Invalid("tossWinner must be team1Id or team2Id")
	}
	if !r.TossDecision.Valid() {
		return Invalid("tossDecision must be bat or bowl")
	}
	return nil
}

// Complete reports whether every field is set and the teams differ. The
// match-setup form uses it to enable prediction.
func (r PredictionRequest) Complete() bool {
	return r.Team1ID != "" && r.Team2ID != "" && r.VenueID != "" &&
		r.TossWinner != "" && r.TossDecision != "" && r.Team1ID != r.Team2ID
}

// MatchState describes an in-progress match for live win-probability
// progression. All fields are optional.
type MatchState struct {
	Team1ID            string  `json:"team1Id,omitempty"`
	Team2ID            string  `json:"team2Id,omitempty"`
	VenueID            string  `json:"venueId,omitempty"`
	CurrentOver        float64 `json:"currentOver,omitempty"`
	CurrentProbability float64 `json:"currentProbability,omitempty"`
}
