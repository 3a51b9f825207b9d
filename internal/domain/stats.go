package domain

import (
	"math"
	"sort"
	"strconv"
)

// HeadToHeadStats is the all-time record between two teams.
type HeadToHeadStats struct {
	ID           string `json:"id" yaml:"id"`
	Team1ID      string `json:"team1Id" yaml:"team1Id"`
	Team2ID      string `json:"team2Id" yaml:"team2Id"`
	TotalMatches int    `json:"totalMatches" yaml:"totalMatches"`
	Team1Wins    int    `json:"team1Wins" yaml:"team1Wins"`
	Team2Wins    int    `json:"team2Wins" yaml:"team2Wins"`
}

// Validate enforces team1Wins + team2Wins <= totalMatches.
func (h HeadToHeadStats) Validate() error {
	if h.Team1ID == "" || h.Team2ID == "" {
		return Invalid("team1Id and team2Id are required")
	}
	if h.TotalMatches < 0 || h.Team1Wins < 0 || h.Team2Wins < 0 {
		return Invalid("match counts must not be negative")
	}
	if h.Team1Wins+h.Team2Wins > h.TotalMatches {
		return Invalid("team1Wins + team2Wins must not exceed totalMatches")
	}
	return nil
}

// Key is the storage key for the pair in stored order.
func (h HeadToHeadStats) Key() string {
	return PairKey(h.Team1ID, h.Team2ID)
}

// OrientedTo returns the record with team1 set to teamID, swapping win
// counts when the stored order is reversed.
func (h HeadToHeadStats) OrientedTo(teamID string) HeadToHeadStats {
	if h.Team1ID == teamID || h.Team2ID != teamID {
		return h
	}
	h.Team1ID, h.Team2ID = h.Team2ID, h.Team1ID
	h.Team1Wins, h.Team2Wins = h.Team2Wins, h.Team1Wins
	return h
}

// Team1WinRate is team1's share of all matches, rounded to one decimal.
func (h HeadToHeadStats) Team1WinRate() float64 {
	return WinRate(h.Team1Wins, h.TotalMatches)
}

// Team2WinRate is team2's share of all matches, rounded to one decimal.
func (h HeadToHeadStats) Team2WinRate() float64 {
	return WinRate(h.Team2Wins, h.TotalMatches)
}

// PairKey joins two ids in the given order. The length prefix keeps keys
// distinct for ids that contain the separator, such as arun-jaitley.
func PairKey(a, b string) string {
	return strconv.Itoa(len(a)) + ":" + a + "|" + b
}

// ImpactPlayer is a player singled out for display on a team card.
type ImpactPlayer struct {
	Name        string  `json:"name" yaml:"name"`
	Role        string  `json:"role" yaml:"role"`
	ImpactScore float64 `json:"impactScore" yaml:"impactScore"`
	Initials    string  `json:"initials" yaml:"initials"`
}

// TeamStats summarises a team's recent output. RecentForm is ordered most
// recent first.
type TeamStats struct {
	ID                string         `json:"id" yaml:"id"`
	TeamID            string         `json:"teamId" yaml:"teamId"`
	PowerplayAvg      float64        `json:"powerplayAvg" yaml:"powerplayAvg"`
	DeathOversEconomy float64        `json:"deathOversEconomy" yaml:"deathOversEconomy"`
	RecentForm        []bool         `json:"recentForm" yaml:"recentForm"`
	ImpactPlayers     []ImpactPlayer `json:"impactPlayers" yaml:"impactPlayers"`
}

// Validate checks the fields required to key the record.
func (s TeamStats) Validate() error {
	if s.TeamID == "" {
		return Invalid("teamId is required")
	}
	return nil
}

// Clone copies the slices so callers cannot mutate stored state.
func (s TeamStats) Clone() TeamStats {
	s.RecentForm = append([]bool(nil), s.RecentForm...)
	s.ImpactPlayers = append([]ImpactPlayer(nil), s.ImpactPlayers...)
	if s.RecentForm == nil {
		s.RecentForm = []bool{}
	}
	if s.ImpactPlayers == nil {
		s.ImpactPlayers = []ImpactPlayer{}
	}
	return s
}

// VenueStats is one team's record at one venue.
type VenueStats struct {
	ID            string  `json:"id" yaml:"id"`
	VenueID       string  `json:"venueId" yaml:"venueId"`
	TeamID        string  `json:"teamId" yaml:"teamId"`
	MatchesPlayed int     `json:"matches" yaml:"matches"`
	Wins          int     `json:"wins" yaml:"wins"`
	WinRate       float64 `json:"winRate" yaml:"winRate"`
}

// Key is the storage key venue-team.
func (s VenueStats) Key() string {
	return PairKey(s.VenueID, s.TeamID)
}

// Validate enforces wins <= matches.
func (s VenueStats) Validate() error {
	if s.VenueID == "" || s.TeamID == "" {
		return Invalid("venueId and teamId are required")
	}
	if s.MatchesPlayed < 0 || s.Wins < 0 {
		return Invalid("match counts must not be negative")
	}
	if s.Wins > s.MatchesPlayed {
		return Invalid("wins must not exceed matches")
	}
	return nil
}

// WithWinRate recomputes WinRate from wins and matches played.
func (s VenueStats) WithWinRate() VenueStats {
	s.WinRate = WinRate(s.Wins, s.MatchesPlayed)
	return s
}

// VenueDetails describes batting conditions at a venue.
type VenueDetails struct {
	VenueID            string  `json:"venueId"`
	Capacity           int     `json:"capacity"`
	AvgFirstInnings    int     `json:"avgFirstInnings"`
	BoundaryPercentage float64 `json:"boundaryPercentage"`
	SixRate            float64 `json:"sixRate"`
}

// DetailsOf derives details from a stored venue.
func DetailsOf(v Venue) VenueDetails {
	return VenueDetails{
		VenueID:            v.ID,
		Capacity:           v.Capacity,
		AvgFirstInnings:    v.AvgFirstInnings,
		BoundaryPercentage: v.BoundaryPercentage,
		SixRate:            v.SixRate,
	}
}

// WinRate returns 100 * wins / matches rounded to one decimal, or 0 when no
// matches were played.
func WinRate(wins, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return Round1(100 * float64(wins) / float64(matches))
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RankedPlayer is an impact player with the position of the TeamStats it
// came from in the TopImpactPlayers arguments.
type RankedPlayer struct {
	ImpactPlayer
	Side int
}

// TopImpactPlayers merges the players of every team in order, sorts by
// descending impact score and returns at most n. Equal scores keep their
// original order.
func TopImpactPlayers(n int, stats ...TeamStats) []RankedPlayer {
	merged := make([]RankedPlayer, 0)
	for side, s := range stats {
		for _, p := range s.ImpactPlayers {
			merged = append(merged, RankedPlayer{ImpactPlayer: p, Side: side})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ImpactScore > merged[j].ImpactScore
	})
	if n >= 0 && len(merged) > n {
		merged = merged[:n]
	}
	return merged
}
