// Package insights serves the read side of the dashboard: teams, venues and
// the historical stats behind each widget.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

// DetailsSource supplies venue batting conditions from outside the repository.
type DetailsSource interface {
	VenueDetails(ctx context.Context, venueID string) (domain.VenueDetails, bool, error)
}

// Service coordinates insight lookups using a Repository.
type Service struct {
	repo    store.Repository
	details DetailsSource
}

// NewService constructs a Service. details may be nil, in which case venue
// details are derived from the stored venue.
func NewService(repo store.Repository, details DetailsSource) *Service {
	return &Service{repo: repo, details: details}
}

func (s *Service) Teams(ctx context.Context) ([]domain.Team, error) {
	return s.repo.Teams(ctx)
}

// Team returns a team or an ErrNotFound error.
func (s *Service) Team(ctx context.Context, id string) (domain.Team, error) {
	t, ok, err := s.repo.Team(ctx, id)
	if err != nil {
		return domain.Team{}, err
	}
	if !ok {
		return domain.Team{}, domain.NotFound("team", id)
	}
	return t, nil
}

func (s *Service) Venues(ctx context.Context) ([]domain.Venue, error) {
	return s.repo.Venues(ctx)
}

// Venue returns a venue or an ErrNotFound error.
func (s *Service) Venue(ctx context.Context, id string) (domain.Venue, error) {
	v, ok, err := s.repo.Venue(ctx, id)
	if err != nil {
		return domain.Venue{}, err
	}
	if !ok {
		return domain.Venue{}, domain.NotFound("venue", id)
	}
	return v, nil
}

// HeadToHead returns the record for a pair oriented so team1 is the first
// requested team.
func (s *Service) HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, error) {
	h, ok, err := s.repo.HeadToHead(ctx, team1ID, team2ID)
	if err != nil {
		return domain.HeadToHeadStats{}, err
	}
	if !ok {
		return domain.HeadToHeadStats{}, domain.NotFound("head-to-head", domain.PairKey(team1ID, team2ID))
	}
	return h.OrientedTo(team1ID), nil
}

func (s *Service) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, error) {
	st, ok, err := s.repo.TeamStats(ctx, teamID)
	if err != nil {
		return domain.TeamStats{}, err
	}
	if !ok {
		return domain.TeamStats{}, domain.NotFound("team stats", teamID)
	}
	return st, nil
}

// VenueStats lists every team's record at a venue. An unknown venue yields an empty list.
func (s *Service) VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error) {
	return s.repo.VenueStats(ctx, venueID)
}

func (s *Service) VenueTeamStats(ctx context.Context, venueID, teamID string) (domain.VenueStats, error) {
	st, ok, err := s.repo.VenueTeamStats(ctx, venueID, teamID)
	if err != nil {
		return domain.VenueStats{}, err
	}
	if !ok {
		return domain.VenueStats{}, domain.NotFound("venue stats", domain.PairKey(venueID, teamID))
	}
	return st, nil
}

// VenueDetails prefers the external source when one is configured and fills
// a missing capacity from the stored venue.
func (s *Service) VenueDetails(ctx context.Context, venueID string) (domain.VenueDetails, error) {
	stored, hasStored, err := s.repo.Venue(ctx, venueID)
	if err != nil {
		return domain.VenueDetails{}, err
	}

	if s.details == nil {
		if !hasStored {
			return domain.VenueDetails{}, domain.NotFound("venue", venueID)
		}
		return domain.DetailsOf(stored), nil
	}

	d, ok, err := s.details.VenueDetails(ctx, venueID)
	if err != nil {
		return domain.VenueDetails{}, err
	}
	if !ok {
		return domain.VenueDetails{}, domain.NotFound("venue details", venueID)
	}
	if d.Capacity == 0 && hasStored {
		d.Capacity = stored.Capacity
	}
	return d, nil
}

func (s *Service) Matches(ctx context.Context) ([]domain.Match, error) {
	return s.repo.Matches(ctx)
}

func (s *Service) Match(ctx context.Context, id string) (domain.Match, error) {
	m, ok, err := s.repo.Match(ctx, id)
	if err != nil {
		return domain.Match{}, err
	}
	if !ok {
		return domain.Match{}, domain.NotFound("match", id)
	}
	return m, nil
}

// CreateTeam stores a team. An id and a name are required.
func (s *Service) CreateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" || strings.TrimSpace(t.Name) == "" {
		return domain.Team{}, domain.Invalid("id and name are required")
	}
	return s.repo.CreateTeam(ctx, t)
}

// CreateVenue stores a venue. An id and a name are required and counts must not be negative.
func (s *Service) CreateVenue(ctx context.Context, v domain.Venue) (domain.Venue, error) {
	v.ID = strings.TrimSpace(v.ID)
	if v.ID == "" || strings.TrimSpace(v.Name) == "" {
		return domain.Venue{}, domain.Invalid("id and name are required")
	}
	if v.Capacity < 0 || v.AvgFirstInnings < 0 || v.BoundaryPercentage < 0 || v.SixRate < 0 {
		return domain.Venue{}, domain.Invalid("venue figures must not be negative")
	}
	return s.repo.CreateVenue(ctx, v)
}

// CreateMatch records a fixture using the same field rules as a prediction request.
func (s *Service) CreateMatch(ctx context.Context, m domain.Match) (domain.Match, error) {
	req := domain.PredictionRequest{
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		VenueID:      m.VenueID,
		TossWinner:   m.TossWinner,
		TossDecision: m.TossDecision,
	}.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Match{}, err
	}
	m.Team1ID, m.Team2ID, m.VenueID = req.Team1ID, req.Team2ID, req.VenueID
	m.TossWinner, m.TossDecision = req.TossWinner, req.TossDecision
	return s.repo.CreateMatch(ctx, m)
}

func (s *Service) CreateHeadToHead(ctx context.Context, h domain.HeadToHeadStats) (domain.HeadToHeadStats, error) {
	if err := h.Validate(); err != nil {
		return domain.HeadToHeadStats{}, err
	}
	if h.Team1ID == h.Team2ID {
		return domain.HeadToHeadStats{}, domain.Invalid("team1Id and team2Id must differ")
	}
	return s.repo.CreateHeadToHead(ctx, h)
}

func (s *Service) CreateTeamStats(ctx context.Context, st domain.TeamStats) (domain.TeamStats, error) {
	if err := st.Validate(); err != nil {
		return domain.TeamStats{}, err
	}
	return s.repo.CreateTeamStats(ctx, st)
}

func (s *Service) CreateVenueStats(ctx context.Context, st domain.VenueStats) (domain.VenueStats, error) {
	if err := st.Validate(); err != nil {
		return domain.VenueStats{}, err
	}
	created, err := s.repo.CreateVenueStats(ctx, st)
	if err != nil {
		return domain.VenueStats{}, fmt.Errorf("store venue stats: %w", err)
	}
	return created, nil
}
