package remote

type predictRequest struct {
	Team1ID      string `json:"team1Id"`
	Team2ID      string `json:"team2Id"`
	VenueID      string `json:"venueId"`
	TossWinner   string `json:"tossWinner"`
	TossDecision string `json:"tossDecision"`
}

type predictResponse struct {
	Team1WinProbability float64         `json:"team1WinProbability"`
	Team2WinProbability float64         `json:"team2WinProbability"`
	PredictedWinner     string          `json:"predictedWinner"`
	ExpectedMargin      string          `json:"expectedMargin"`
	Factors             factorsResponse `json:"factors"`
}

type factorsResponse struct {
	VenueAdvantage float64 `json:"venueAdvantage"`
	TossDecision   float64 `json:"tossDecision"`
	RecentForm     float64 `json:"recentForm"`
	HeadToHead     float64 `json:"headToHead"`
}

type headToHeadResponse struct {
	Team1ID      string `json:"team1Id"`
	Team2ID      string `json:"team2Id"`
	TotalMatches int    `json:"totalMatches"`
	Team1Wins    int    `json:"team1Wins"`
	Team2Wins    int    `json:"team2Wins"`
}

type teamStatsResponse struct {
	TeamID            string                 `json:"teamId"`
	PowerplayAvg      float64                `json:"powerplayAvg"`
	DeathOversEconomy float64                `json:"deathOversEconomy"`
	RecentForm        []bool                 `json:"recentForm"`
	ImpactPlayers     []impactPlayerResponse `json:"impactPlayers"`
}

type impactPlayerResponse struct {
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	ImpactScore float64 `json:"impactScore"`
	Initials    string  `json:"initials"`
}

type venueStatsResponse struct {
	VenueID string `json:"venueId"`
	TeamID  string `json:"teamId"`
	Matches int    `json:"matches"`
	Wins    int    `json:"wins"`
}

type venueDetailsResponse struct {
	Capacity           int     `json:"capacity"`
	AvgFirstInnings    int     `json:"avgFirstInnings"`
	BoundaryPercentage float64 `json:"boundaryPercentage"`
	SixRate            float64 `json:"sixRate"`
}
