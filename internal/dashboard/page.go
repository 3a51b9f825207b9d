package dashboard

import (
	"sync"

	"github.com/preston-bernstein/cricket-insights-service/internal/app/predictions"
	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// Selection fields accepted by Page.Update and the setup form.
const (
	FieldTeam1        = "team1"
	FieldTeam2        = "team2"
	FieldVenue        = "venue"
	FieldTossWinner   = "tossWinner"
	FieldTossDecision = "tossDecision"
)

// Selection is the match setup currently chosen on the dashboard.
type Selection struct {
	Team1ID      string
	Team2ID      string
	VenueID      string
	TossWinner   string
	TossDecision string
}

// Request converts the selection into a prediction request.
func (s Selection) Request() domain.PredictionRequest {
	return domain.PredictionRequest{
		Team1ID:      s.Team1ID,
		Team2ID:      s.Team2ID,
		VenueID:      s.VenueID,
		TossWinner:   s.TossWinner,
		TossDecision: domain.TossDecision(s.TossDecision),
	}
}

// CanGenerate reports whether the generate button is enabled.
func (s Selection) CanGenerate() bool {
	return s.Request().Complete()
}

// HasTeams reports whether both teams are chosen.
func (s Selection) HasTeams() bool {
	return s.Team1ID != "" && s.Team2ID != ""
}

// Page holds one viewer's selection and the last accepted prediction.
//
// Every selection change bumps the generation and drops the prediction. A
// prediction started under an older generation is discarded by Accept.
type Page struct {
	mu         sync.Mutex
	selection  Selection
	generation uint64
	prediction *predictions.MatchPrediction
}

// NewPage returns a page with nothing selected.
func NewPage() *Page {
	return &Page{}
}

// Update sets one selection field. Changing either team resets the toss
// winner. It reports whether anything changed.
func (p *Page) Update(field, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.selection
	switch field {
	case FieldTeam1:
		next.Team1ID = value
	case FieldTeam2:
		next.Team2ID = value
	case FieldVenue:
		next.VenueID = value
	case FieldTossWinner:
		next.TossWinner = value
	case FieldTossDecision:
		next.TossDecision = value
	default:
		return false
	}
	if next.Team1ID != p.selection.Team1ID || next.Team2ID != p.selection.Team2ID {
		next.TossWinner = ""
	}
	if next == p.selection {
		return false
	}

	p.selection = next
	p.generation++
	p.prediction = nil
	return true
}

// Apply sets the submitted fields in form order: teams, venue, toss winner,
// toss decision. A toss winner submitted alongside a team change refers to
// the old pairing and is dropped.
func (p *Page) Apply(changes map[string]string) bool {
	changed := false
	teamsChanged := false
	for _, field := range []string{FieldTeam1, FieldTeam2, FieldVenue, FieldTossWinner, FieldTossDecision} {
		value, ok := changes[field]
		if !ok || (field == FieldTossWinner && teamsChanged) {
			continue
		}
		if p.Update(field, value) {
			changed = true
			if field == FieldTeam1 || field == FieldTeam2 {
				teamsChanged = true
			}
		}
	}
	return changed
}

// Snapshot returns the selection together with its generation.
func (p *Page) Snapshot() (Selection, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection, p.generation
}

func (p *Page) Selection() Selection {
	sel, _ := p.Snapshot()
	return sel
}

// Accept stores a prediction generated for generation gen. Results for a
// superseded generation are ignored and Accept reports false.
func (p *Page) Accept(gen uint64, pred predictions.MatchPrediction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return false
	}
	p.prediction = &pred
	return true
}

// Prediction returns the last accepted prediction, if any.
func (p *Page) Prediction() (predictions.MatchPrediction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prediction == nil {
		return predictions.MatchPrediction{}, false
	}
	return *p.prediction, true
}
