package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/insights"
	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

type widgetState int

const (
	stateLoading widgetState = iota
	stateNoData
	stateReady
)

const (
	keyPlayerCount = 3

	powerplayScale    = 80.0
	deathEconomyScale = 15.0
	// A missing economy figure is drawn as 10 runs per over.
	defaultDeathEconomy = 10.0

	chartWidth  = 600
	chartHeight = 240
)

type HeadToHeadView struct {
	State        widgetState
	Team1        domain.Team
	Team2        domain.Team
	TotalMatches int
	Team1Wins    int
	Team2Wins    int
	Team1WinRate float64
	Team2WinRate float64
}

// PlayerView is an impact player tagged with the side they play for.
type PlayerView struct {
	domain.ImpactPlayer
	TeamShortName string
	Team1         bool
}

type KeyPlayersView struct {
	State   widgetState
	Players []PlayerView
}

type StrengthView struct {
	Team         domain.Team
	PowerplayAvg float64
	DeathEconomy float64
	PowerplayBar float64
	DeathBar     float64
	RecentForm   []bool
}

type TeamStrengthView struct {
	State widgetState
	Team1 StrengthView
	Team2 StrengthView
}

type VenueAnalysisView struct {
	State        widgetState
	Venue        domain.Venue
	Team1        domain.Team
	Team2        domain.Team
	Team1WinRate string
	Team2WinRate string
	Team1Strong  bool
	Team2Strong  bool
}

type ChartView struct {
	State  widgetState
	Points []float64
}

// Polyline renders the progression as SVG polyline points on the chart box.
func (v ChartView) Polyline() string {
	return polyline(v.Points, chartWidth, chartHeight)
}

type SetupView struct {
	Selection    Selection
	Teams        []domain.Team
	Team2Options []domain.Team
	Venues       []domain.Venue
	Team1        *domain.Team
	Team2        *domain.Team
	CanGenerate  bool
}

type FactorView struct {
	Label       string
	Value       string
	Description string
}

type ResultsView struct {
	State       widgetState
	Prediction  predictions.MatchPrediction
	Team1Name   string
	Team2Name   string
	Team1Winner bool
	Factors     []FactorView
}

// PageView gathers every widget for the full dashboard page.
type PageView struct {
	Setup      SetupView
	HeadToHead HeadToHeadView
	Results    ResultsView
	Chart      ChartView
	Strength   TeamStrengthView
	Players    KeyPlayersView
	Venue      VenueAnalysisView
}

// PowerplayBar is the powerplay average as a share of 80, clamped to [0,1].
func PowerplayBar(avg float64) float64 {
	return clamp01(avg / powerplayScale)
}

// DeathBar scores a death-overs economy as (15 - economy) / 15, clamped to [0,1].
func DeathBar(economy float64) float64 {
	if economy == 0 {
		economy = defaultDeathEconomy
	}
	return clamp01((deathEconomyScale - economy) / deathEconomyScale)
}

// FormatRate prints a win rate to one decimal, or "0.0" when there is none.
func FormatRate(rate float64, ok bool) string {
	if !ok {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", rate)
}

// KeyPlayers merges both teams' impact players, sorts by descending score
// and keeps the first n. Equal scores stay in team1-then-team2 order.
func KeyPlayers(team1 domain.Team, stats1 domain.TeamStats, team2 domain.Team, stats2 domain.TeamStats, n int) []PlayerView {
	ranked := domain.TopImpactPlayers(n, stats1, stats2)
	out := make([]PlayerView, 0, len(ranked))
	for _, p := range ranked {
		view := PlayerView{ImpactPlayer: p.ImpactPlayer, TeamShortName: team2.ShortName}
		if p.Side == 0 {
			view.TeamShortName = team1.ShortName
			view.Team1 = true
		}
		out = append(out, view)
	}
	return out
}

func polyline(points []float64, width, height float64) string {
	if len(points) == 0 {
		return ""
	}
	step := 0.0
	if len(points) > 1 {
		step = width / float64(len(points)-1)
	}
	parts := make([]string, 0, len(points))
	for i, p := range points {
		x := float64(i) * step
		y := height - clamp01(p/100)*height
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return strings.Join(parts, " ")
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func signedPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// loader builds widget views from the services. A not-found lookup yields
// the no-data state; other failures are returned alongside a no-data view.
type loader struct {
	insights    *insights.Service
	predictions *predictions.Service
}

func (l loader) headToHead(ctx context.Context, sel Selection) (HeadToHeadView, error) {
	if !sel.HasTeams() {
		return HeadToHeadView{State: stateLoading}, nil
	}
	team1, team2, err := l.teams(ctx, sel)
	if err != nil {
		return HeadToHeadView{State: stateNoData}, ignoreNotFound(err)
	}
	stats, err := l.insights.HeadToHead(ctx, sel.Team1ID, sel.Team2ID)
	if err != nil {
		return HeadToHeadView{State: stateNoData}, ignoreNotFound(err)
	}
	return HeadToHeadView{
		State:        stateReady,
		Team1:        team1,
		Team2:        team2,
		TotalMatches: stats.TotalMatches,
		Team1Wins:    stats.Team1Wins,
		Team2Wins:    stats.Team2Wins,
		Team1WinRate: stats.Team1WinRate(),
		Team2WinRate: stats.Team2WinRate(),
	}, nil
}

func (l loader) keyPlayers(ctx context.Context, sel Selection) (KeyPlayersView, error) {
	if !sel.HasTeams() {
		return KeyPlayersView{State: stateLoading}, nil
	}
	team1, team2, stats1, stats2, err := l.teamStats(ctx, sel)
	if err != nil {
		return KeyPlayersView{State: stateNoData}, ignoreNotFound(err)
	}
	players := KeyPlayers(team1, stats1, team2, stats2, keyPlayerCount)
	if len(players) == 0 {
		return KeyPlayersView{State: stateNoData}, nil
	}
	return KeyPlayersView{State: stateReady, Players: players}, nil
}

func (l loader) teamStrength(ctx context.Context, sel Selection) (TeamStrengthView, error) {
	if !sel.HasTeams() {
		return TeamStrengthView{State: stateLoading}, nil
	}
	team1, team2, stats1, stats2, err := l.teamStats(ctx, sel)
	if err != nil {
		return TeamStrengthView{State: stateNoData}, ignoreNotFound(err)
	}
	return TeamStrengthView{
		State: stateReady,
		Team1: strengthOf(team1, stats1),
		Team2: strengthOf(team2, stats2),
	}, nil
}

func strengthOf(team domain.Team, stats domain.TeamStats) StrengthView {
	return StrengthView{
		Team:         team,
		PowerplayAvg: stats.PowerplayAvg,
		DeathEconomy: stats.DeathOversEconomy,
		PowerplayBar: PowerplayBar(stats.PowerplayAvg),
		DeathBar:     DeathBar(stats.DeathOversEconomy),
		RecentForm:   stats.RecentForm,
	}
}

func (l loader) venueAnalysis(ctx context.Context, sel Selection) (VenueAnalysisView, error) {
	if sel.VenueID == "" || !sel.HasTeams() {
		return VenueAnalysisView{State: stateLoading}, nil
	}
	venue, err := l.insights.Venue(ctx, sel.VenueID)
	if err != nil {
		return VenueAnalysisView{State: stateNoData}, ignoreNotFound(err)
	}
	team1, team2, err := l.teams(ctx, sel)
	if err != nil {
		return VenueAnalysisView{State: stateNoData}, ignoreNotFound(err)
	}
	stats, err := l.insights.VenueStats(ctx, sel.VenueID)
	if err != nil {
		return VenueAnalysisView{State: stateNoData}, err
	}

	view := VenueAnalysisView{State: stateReady, Venue: venue, Team1: team1, Team2: team2}
	rate1, ok1 := rateFor(stats, sel.Team1ID)
	rate2, ok2 := rateFor(stats, sel.Team2ID)
	view.Team1WinRate, view.Team1Strong = FormatRate(rate1, ok1), rate1 > 50
	view.Team2WinRate, view.Team2Strong = FormatRate(rate2, ok2), rate2 > 50
	return view, nil
}

func rateFor(stats []domain.VenueStats, teamID string) (float64, bool) {
	for _, s := range stats {
		if s.TeamID == teamID {
			return s.WinRate, true
		}
	}
	return 0, false
}

func (l loader) chart(ctx context.Context, pred predictions.MatchPrediction, ok bool) (ChartView, error) {
	if !ok {
		return ChartView{State: stateLoading}, nil
	}
	points, err := l.predictions.PredictLive(ctx, domain.MatchState{
		Team1ID:            pred.Team1ID,
		Team2ID:            pred.Team2ID,
		VenueID:            pred.VenueID,
		CurrentProbability: pred.Team1WinProbability,
	})
	if err != nil {
		return ChartView{State: stateNoData}, err
	}
	if len(points) == 0 {
		return ChartView{State: stateNoData}, nil
	}
	return ChartView{State: stateReady, Points: points}, nil
}

func (l loader) setup(ctx context.Context, sel Selection) (SetupView, error) {
	teams, err := l.insights.Teams(ctx)
	if err != nil {
		return SetupView{Selection: sel}, err
	}
	venues, err := l.insights.Venues(ctx)
	if err != nil {
		return SetupView{Selection: sel}, err
	}

	view := SetupView{
		Selection:    sel,
		Teams:        teams,
		Venues:       venues,
		Team2Options: make([]domain.Team, 0, len(teams)),
		CanGenerate:  sel.CanGenerate(),
	}
	for i := range teams {
		t := teams[i]
		if t.ID != sel.Team1ID {
			view.Team2Options = append(view.Team2Options, t)
		}
		switch t.ID {
		case sel.Team1ID:
			view.Team1 = &t
		case sel.Team2ID:
			view.Team2 = &t
		}
	}
	return view, nil
}

func results(pred predictions.MatchPrediction, ok bool) ResultsView {
	if !ok {
		return ResultsView{State: stateNoData}
	}
	view := ResultsView{
		State:       stateReady,
		Prediction:  pred,
		Team1Name:   pred.Team1ID,
		Team2Name:   pred.Team2ID,
		Team1Winner: pred.PredictedWinner == pred.Team1ID,
	}
	if pred.Teams.Team1 != nil {
		view.Team1Name = pred.Teams.Team1.Name
	}
	if pred.Teams.Team2 != nil {
		view.Team2Name = pred.Teams.Team2.Name
	}

	venueName := pred.VenueID
	if pred.Venue != nil {
		venueName = pred.Venue.Name
	}
	toss := "Bowl First"
	if pred.TossDecision == domain.TossBat {
		toss = "Bat First"
	}
	view.Factors = []FactorView{
		{Label: "Venue Advantage", Value: signedPercent(pred.Factors.VenueAdvantage), Description: venueName},
		{Label: "Toss Decision", Value: signedPercent(pred.Factors.TossDecision), Description: toss},
		{Label: "Recent Form", Value: signedPercent(pred.Factors.RecentForm), Description: "Last 5 matches"},
		{Label: "Head-to-Head Record", Value: signedPercent(pred.Factors.HeadToHead), Description: "Historical performance"},
	}
	return view
}

func (l loader) teams(ctx context.Context, sel Selection) (domain.Team, domain.Team, error) {
	team1, err := l.insights.Team(ctx, sel.Team1ID)
	if err != nil {
		return domain.Team{}, domain.Team{}, err
	}
	team2, err := l.insights.Team(ctx, sel.Team2ID)
	if err != nil {
		return domain.Team{}, domain.Team{}, err
	}
	return team1, team2, nil
}

func (l loader) teamStats(ctx context.Context, sel Selection) (team1, team2 domain.Team, stats1, stats2 domain.TeamStats, err error) {
	if team1, team2, err = l.teams(ctx, sel); err != nil {
		return
	}
	if stats1, err = l.insights.TeamStats(ctx, sel.Team1ID); err != nil {
		return
	}
	stats2, err = l.insights.TeamStats(ctx, sel.Team2ID)
	return
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
