package dashboard

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

func cardOpen(h *htmlWriter, testID, title string) {
	h.rawf(`<section class="card" data-testid="%s">`, templ.EscapeString(testID))
	h.raw(`<h3 class="card-title">`)
	h.text(title)
	h.raw(`</h3>`)
}

func cardClose(h *htmlWriter) {
	h.raw(`</section>`)
}

func skeleton(h *htmlWriter, rows int) {
	h.raw(`<div class="skeleton">`)
	for i := 0; i < rows; i++ {
		h.raw(`<div class="skeleton-row"></div>`)
	}
	h.raw(`</div>`)
}

func placeholder(h *htmlWriter, msg string) {
	h.raw(`<p class="muted">`)
	h.text(msg)
	h.raw(`</p>`)
}

func statRow(h *htmlWriter, label, testID, value string) {
	h.raw(`<div class="stat-row"><span class="muted">`)
	h.text(label)
	h.rawf(`</span><span class="stat" data-testid="%s">`, templ.EscapeString(testID))
	h.text(value)
	h.raw(`</span></div>`)
}

func bar(h *htmlWriter, class string, fraction float64) {
	h.rawf(`<div class="bar"><div class="%s" style="width: %.1f%%"></div></div>`,
		templ.EscapeString(class), clamp01(fraction)*100)
}

func formDots(h *htmlWriter, testID string, form []bool) {
	h.rawf(`<div class="form-dots" data-testid="%s">`, templ.EscapeString(testID))
	for i, win := range form {
		result, class := "loss", "dot dot-loss"
		if win {
			result, class = "win", "dot dot-win"
		}
		h.rawf(`<span class="%s" data-testid="form-dot-%d-%s"></span>`, class, i, result)
	}
	h.raw(`</div>`)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const (
	headToHeadTitle    = "Head-to-Head Stats"
	keyPlayersTitle    = "Key Player Insights"
	teamStrengthTitle  = "Team Strength Analysis"
	venueAnalysisTitle = "Venue Impact Analysis"
	chartTitle         = "Win Probability Progression"
	setupTitle         = "Match Setup"
	resultsTitle       = "Match Winner Prediction"

	noHeadToHeadMessage = "No head-to-head data available for these teams."
	noTeamStatsMessage  = "No team statistics available for these teams."
	noVenueMessage      = "No venue data available."
	noChartMessage      = "No probability progression available."
	promptTitle         = "Generate Match Prediction"
	promptMessage       = "Select teams, venue, and toss details to get match predictions"
)

// HeadToHeadWidget shows the all-time record between the selected teams.
func HeadToHeadWidget(v HeadToHeadView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		switch v.State {
		case stateLoading:
			cardOpen(h, "head-to-head-loading", headToHeadTitle)
			skeleton(h, 3)
		case stateNoData:
			cardOpen(h, "head-to-head-no-data", headToHeadTitle)
			placeholder(h, noHeadToHeadMessage)
		default:
			cardOpen(h, "head-to-head-card", headToHeadTitle)
			statRow(h, "Total Matches", "total-matches", strconv.Itoa(v.TotalMatches))
			statRow(h, v.Team1.ShortName+" Wins", "team1-wins", strconv.Itoa(v.Team1Wins))
			statRow(h, v.Team2.ShortName+" Wins", "team2-wins", strconv.Itoa(v.Team2Wins))
			statRow(h, v.Team1.ShortName+" Win Rate", "team1-win-rate", fmt.Sprintf("%.1f%%", v.Team1WinRate))
			statRow(h, v.Team2.ShortName+" Win Rate", "team2-win-rate", fmt.Sprintf("%.1f%%", v.Team2WinRate))
			bar(h, "bar-fill", v.Team1WinRate/100)
		}
		cardClose(h)
	})
}

// KeyPlayersWidget lists the top impact players across both teams.
func KeyPlayersWidget(v KeyPlayersView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		switch v.State {
		case stateLoading:
			cardOpen(h, "key-players-loading", keyPlayersTitle)
			skeleton(h, 3)
		case stateNoData:
			cardOpen(h, "key-players-no-data", keyPlayersTitle)
			placeholder(h, noTeamStatsMessage)
		default:
			cardOpen(h, "key-players-card", keyPlayersTitle)
			h.raw(`<h4>Top Impact Players</h4><ol class="players">`)
			for i, p := range v.Players {
				side := "team2"
				if p.Team1 {
					side = "team1"
				}
				h.rawf(`<li class="player player-%s">`, side)
				h.rawf(`<span class="initials" data-testid="player-initials-%d">`, i)
				h.text(p.Initials)
				h.rawf(`</span><span class="player-name" data-testid="player-name-%d">`, i)
				h.text(p.Name)
				h.rawf(`</span><span class="muted" data-testid="player-role-%d">`, i)
				h.text(p.Role + " · " + p.TeamShortName)
				h.rawf(`</span><span class="stat" data-testid="player-impact-%d">`, i)
				h.text(number(p.ImpactScore))
				h.raw(`</span></li>`)
			}
			h.raw(`</ol>`)
		}
		cardClose(h)
	})
}

// TeamStrengthWidget compares powerplay, death-overs and form figures.
func TeamStrengthWidget(v TeamStrengthView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		switch v.State {
		case stateLoading:
			cardOpen(h, "team-strength-loading", teamStrengthTitle)
			skeleton(h, 3)
		case stateNoData:
			cardOpen(h, "team-strength-no-data", teamStrengthTitle)
			placeholder(h, noTeamStatsMessage)
		default:
			cardOpen(h, "team-strength-card", teamStrengthTitle)
			strengthBlock(h, "team1", v.Team1)
			strengthBlock(h, "team2", v.Team2)
		}
		cardClose(h)
	})
}

func strengthBlock(h *htmlWriter, side string, s StrengthView) {
	h.raw(`<div class="team-block">`)
	h.rawf(`<h4 data-testid="%s-name">`, side)
	h.text(s.Team.Name)
	h.raw(`</h4>`)
	statRow(h, "Powerplay Avg", side+"-powerplay", number(s.PowerplayAvg))
	bar(h, "bar-fill", s.PowerplayBar)
	statRow(h, "Death Overs Economy", side+"-economy", number(s.DeathEconomy))
	bar(h, "bar-fill bar-accent", s.DeathBar)
	formDots(h, side+"-form", s.RecentForm)
	h.raw(`</div>`)
}

// VenueAnalysisWidget shows batting conditions and each side's record at the venue.
func VenueAnalysisWidget(v VenueAnalysisView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		switch v.State {
		case stateLoading:
			cardOpen(h, "venue-analysis-loading", venueAnalysisTitle)
			skeleton(h, 3)
		case stateNoData:
			cardOpen(h, "venue-analysis-no-data", venueAnalysisTitle)
			placeholder(h, noVenueMessage)
		default:
			cardOpen(h, "venue-analysis-card", venueAnalysisTitle+" - "+v.Venue.Name)
			h.raw(`<h4>Batting Conditions</h4>`)
			statRow(h, "Avg First Innings", "avg-first-innings", strconv.Itoa(v.Venue.AvgFirstInnings))
			statRow(h, "Boundary %", "boundary-percentage", number(v.Venue.BoundaryPercentage)+"%")
			statRow(h, "Six Rate", "six-rate", number(v.Venue.SixRate)+"/over")
			statRow(h, "Capacity", "capacity", strconv.Itoa(v.Venue.Capacity))
			h.raw(`<h4>Team Performance</h4>`)
			statRow(h, v.Team1.ShortName+" Win Rate", "team1-venue-win-rate", v.Team1WinRate+"%")
			statRow(h, v.Team2.ShortName+" Win Rate", "team2-venue-win-rate", v.Team2WinRate+"%")
		}
		cardClose(h)
	})
}

// WinProbabilityChart draws the progression as an SVG line.
func WinProbabilityChart(v ChartView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		switch v.State {
		case stateLoading:
			cardOpen(h, "win-probability-loading", chartTitle)
			skeleton(h, 1)
		case stateNoData:
			cardOpen(h, "win-probability-no-data", chartTitle)
			placeholder(h, noChartMessage)
		default:
			cardOpen(h, "win-probability-chart", chartTitle)
			h.rawf(`<svg class="chart" viewBox="0 0 %d %d" role="img" aria-label="win probability by over">`, chartWidth, chartHeight)
			h.rawf(`<line class="chart-mid" x1="0" y1="%d" x2="%d" y2="%d"></line>`, chartHeight/2, chartWidth, chartHeight/2)
			h.rawf(`<polyline class="chart-line" fill="none" points="%s"></polyline>`, v.Polyline())
			h.raw(`</svg><p class="muted chart-axis">Overs →</p>`)
		}
		cardClose(h)
	})
}

// MatchSetupForm is the selection form. Team2 options exclude team1 and the
// toss controls appear once both teams are chosen.
func MatchSetupForm(v SetupView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		sel := v.Selection
		cardOpen(h, "match-setup-card", setupTitle)
		h.raw(`<form method="post" action="/dashboard/selection" class="setup">`)

		teamSelect(h, FieldTeam1, "Team 1", v.Teams, sel.Team1ID)
		h.raw(`<div class="versus">VS</div>`)
		teamSelect(h, FieldTeam2, "Team 2", v.Team2Options, sel.Team2ID)

		h.rawf(`<label for="%s">Venue</label><select id="%s" name="%s" data-testid="select-venue">`, FieldVenue, FieldVenue, FieldVenue)
		h.raw(`<option value="">Select Venue</option>`)
		for _, venue := range v.Venues {
			option(h, venue.ID, venue.Name+", "+venue.City, venue.ID == sel.VenueID, "venue-option-"+venue.ID)
		}
		h.raw(`</select>`)

		if v.Team1 != nil && v.Team2 != nil {
			h.raw(`<fieldset><legend>Toss Winner</legend>`)
			choice(h, FieldTossWinner, v.Team1.ID, v.Team1.ShortName, sel.TossWinner, "toss-winner-team1")
			choice(h, FieldTossWinner, v.Team2.ID, v.Team2.ShortName, sel.TossWinner, "toss-winner-team2")
			h.raw(`</fieldset><fieldset><legend>Toss Decision</legend>`)
			choice(h, FieldTossDecision, string(domain.TossBat), "Bat First", sel.TossDecision, "toss-decision-bat")
			choice(h, FieldTossDecision, string(domain.TossBowl), "Bowl First", sel.TossDecision, "toss-decision-bowl")
			h.raw(`</fieldset>`)
		}
		h.raw(`<button type="submit" class="secondary" data-testid="button-update-selection">Update</button></form>`)

		h.raw(`<form method="post" action="/dashboard/predict">`)
		if v.CanGenerate {
			h.raw(`<button type="submit" class="primary" data-testid="button-generate-prediction">Generate Prediction</button>`)
		} else {
			h.raw(`<button type="submit" class="primary" data-testid="button-generate-prediction" disabled>Generate Prediction</button>`)
		}
		h.raw(`</form>`)
		cardClose(h)
	})
}

func teamSelect(h *htmlWriter, name, label string, teams []domain.Team, selected string) {
	h.rawf(`<label for="%s">%s</label><select id="%s" name="%s" data-testid="select-%s">`, name, label, name, name, name)
	h.rawf(`<option value="">Select %s</option>`, label)
	for _, t := range teams {
		option(h, t.ID, t.Name, t.ID == selected, "team-option-"+t.ID)
	}
	h.raw(`</select>`)
}

func option(h *htmlWriter, value, label string, selected bool, testID string) {
	h.rawf(`<option value="%s" data-testid="%s"`, templ.EscapeString(value), templ.EscapeString(testID))
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

// choice is a submit button carrying one field value. The active value is marked.
func choice(h *htmlWriter, name, value, label, current, testID string) {
	class := "choice"
	if value == current {
		class = "choice choice-active"
	}
	h.rawf(`<button type="submit" name="%s" value="%s" class="%s" data-testid="%s">`,
		name, templ.EscapeString(value), class, templ.EscapeString(testID))
	h.text(label)
	h.raw(`</button>`)
}

// PredictionResultsWidget shows both win probabilities, the margin and the
// explanatory factors. Without a prediction it prompts for a setup.
func PredictionResultsWidget(v ResultsView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if v.State != stateReady {
			cardOpen(h, "prediction-prompt", promptTitle)
			placeholder(h, promptMessage)
			cardClose(h)
			return
		}

		p := v.Prediction
		cardOpen(h, "prediction-results-card", resultsTitle)
		probability(h, "team1", v.Team1Name, p.Team1WinProbability, v.Team1Winner)
		probability(h, "team2", v.Team2Name, p.Team2WinProbability, !v.Team1Winner)
		h.raw(`<div class="margin"><h4>Expected Margin</h4><p data-testid="expected-margin">`)
		h.text(p.Margin)
		h.raw(`</p></div><h4>Key Factors</h4><ul class="factors">`)
		for _, f := range v.Factors {
			h.raw(`<li><span class="factor-label">`)
			h.text(f.Label)
			h.raw(`</span><span class="muted">`)
			h.text(f.Description)
			h.raw(`</span><span class="stat">`)
			h.text(f.Value)
			h.raw(`</span></li>`)
		}
		h.raw(`</ul>`)
		cardClose(h)
	})
}

func probability(h *htmlWriter, side, name string, value float64, winner bool) {
	class := "probability"
	if winner {
		class = "probability probability-winner"
	}
	h.rawf(`<div class="%s"><h3 data-testid="%s-name">`, class, side)
	h.text(name)
	h.rawf(`</h3><div class="probability-value" data-testid="%s-probability">%s%%</div>`, side, number(value))
	if winner {
		h.raw(`<span class="badge" data-testid="predicted-winner-badge">PREDICTED WINNER</span>`)
	}
	h.raw(`</div>`)
}

// DashboardPage lays out every widget on one page.
func DashboardPage(v PageView) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>IPL Predictor</title><style>`)
		h.raw(pageStyles)
		h.raw(`</style></head><body><header><h1>IPL Predictor</h1><p class="muted">ML Analytics Dashboard</p></header>`)
		h.raw(`<main class="grid"><div class="column">`)
		h.component(ctx, MatchSetupForm(v.Setup))
		h.component(ctx, HeadToHeadWidget(v.HeadToHead))
		h.raw(`</div><div class="column column-wide">`)
		h.component(ctx, PredictionResultsWidget(v.Results))
		h.component(ctx, WinProbabilityChart(v.Chart))
		h.raw(`</div></main><section class="grid">`)
		h.component(ctx, TeamStrengthWidget(v.Strength))
		h.component(ctx, KeyPlayersWidget(v.Players))
		h.raw(`</section><section>`)
		h.component(ctx, VenueAnalysisWidget(v.Venue))
		h.raw(`</section></body></html>`)
	})
}

const pageStyles = `
body { font-family: system-ui, sans-serif; margin: 0 auto; max-width: 1200px; padding: 1rem; color: #1f2933; }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 1.5rem; margin-top: 1.5rem; }
.card { border: 1px solid #e4e7eb; border-radius: 8px; padding: 1.25rem; margin-bottom: 1rem; }
.card-title { margin-top: 0; }
.muted { color: #7b8794; }
.stat-row { display: flex; justify-content: space-between; margin: 0.35rem 0; }
.stat { font-weight: 600; }
.bar { background: #e4e7eb; border-radius: 4px; height: 8px; margin: 0.25rem 0 0.75rem; }
.bar-fill { background: #2563eb; border-radius: 4px; height: 8px; }
.bar-accent { background: #16a34a; }
.form-dots { display: flex; gap: 4px; }
.dot { border-radius: 50%; display: inline-block; height: 12px; width: 12px; }
.dot-win { background: #16a34a; }
.dot-loss { background: #dc2626; }
.skeleton-row { background: #f0f2f4; border-radius: 4px; height: 12px; margin: 8px 0; }
.choice-active { background: #2563eb; color: #fff; }
.probability-winner { outline: 2px solid #2563eb; }
.chart-line { stroke: #16a34a; stroke-width: 3; }
.chart-mid { stroke: #e4e7eb; stroke-dasharray: 4; }
`
