package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

// MemoryStore keeps every entity in process memory behind one RWMutex.
type MemoryStore struct {
	mu          sync.RWMutex
	teams       *table[domain.Team]
	venues      *table[domain.Venue]
	matches     *table[domain.Match]
	predictions *table[domain.Prediction]
	headToHead  *table[domain.HeadToHeadStats]
	teamStats   *table[domain.TeamStats]
	venueStats  *table[domain.VenueStats]
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:       newTable[domain.Team](),
		venues:      newTable[domain.Venue](),
		matches:     newTable[domain.Match](),
		predictions: newTable[domain.Prediction](),
		headToHead:  newTable[domain.HeadToHeadStats](),
		teamStats:   newTable[domain.TeamStats](),
		venueStats:  newTable[domain.VenueStats](),
	}
}

// Teams returns every team in insertion order.
func (s *MemoryStore) Teams(ctx context.Context) ([]domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams.list(nil), nil
}

func (s *MemoryStore) Team(ctx context.Context, id string) (domain.Team, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams.get(id)
	return t, ok, nil
}

func (s *MemoryStore) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team.ID = withID(team.ID)
	s.teams.put(team.ID, team)
	return team, nil
}

// Venues returns every venue in insertion order.
func (s *MemoryStore) Venues(ctx context.Context) ([]domain.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.venues.list(nil), nil
}

func (s *MemoryStore) Venue(ctx context.Context, id string) (domain.Venue, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues.get(id)
	return v, ok, nil
}

func (s *MemoryStore) CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	venue.ID = withID(venue.ID)
	s.venues.put(venue.ID, venue)
	return venue, nil
}

func (s *MemoryStore) Matches(ctx context.Context) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches.list(nil), nil
}

func (s *MemoryStore) Match(ctx context.Context, id string) (domain.Match, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches.get(id)
	return m, ok, nil
}

func (s *MemoryStore) CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match.ID = withID(match.ID)
	s.matches.put(match.ID, match)
	return match, nil
}

// Predictions returns the prediction log oldest first.
func (s *MemoryStore) Predictions(ctx context.Context) ([]domain.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.predictions.list(nil), nil
}

func (s *MemoryStore) Prediction(ctx context.Context, id string) (domain.Prediction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.predictions.get(id)
	return p, ok, nil
}

func (s *MemoryStore) CreatePrediction(ctx context.Context, prediction domain.Prediction) (domain.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prediction.ID = withID(prediction.ID)
	s.predictions.put(prediction.ID, prediction)
	return prediction, nil
}

func (s *MemoryStore) CreatePredictionWithMatch(ctx context.Context, match domain.Match, prediction domain.Prediction) (domain.Match, domain.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match.ID = withID(match.ID)
	prediction.ID = withID(prediction.ID)
	prediction.MatchID = &match.ID
	s.matches.put(match.ID, match)
	s.predictions.put(prediction.ID, prediction)
	return match, prediction, nil
}

func (s *MemoryStore) HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.headToHead.get(domain.PairKey(team1ID, team2ID)); ok {
		return h, true, nil
	}
	h, ok := s.headToHead.get(domain.PairKey(team2ID, team1ID))
	return h, ok, nil
}

// CreateHeadToHead stores the record under team1-team2 and drops any record
// stored under the reverse key.
func (s *MemoryStore) CreateHeadToHead(ctx context.Context, stats domain.HeadToHeadStats) (domain.HeadToHeadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats.ID = withID(stats.ID)
	s.headToHead.remove(domain.PairKey(stats.Team2ID, stats.Team1ID))
	s.headToHead.put(stats.Key(), stats)
	return stats, nil
}

func (s *MemoryStore) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.teamStats.get(teamID)
	if !ok {
		return domain.TeamStats{}, false, nil
	}
	return st.Clone(), true, nil
}

func (s *MemoryStore) CreateTeamStats(ctx context.Context, stats domain.TeamStats) (domain.TeamStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats = prepareTeamStats(stats)
	s.teamStats.put(stats.TeamID, stats)
	return stats.Clone(), nil
}

// VenueStats returns the per-team records for a venue in insertion order.
func (s *MemoryStore) VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.venueStats.list(func(v domain.VenueStats) bool { return v.VenueID == venueID }), nil
}

func (s *MemoryStore) VenueTeamStats(ctx context.Context, venueID, teamID string) (domain.VenueStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venueStats.get(domain.PairKey(venueID, teamID))
	return v, ok, nil
}

func (s *MemoryStore) CreateVenueStats(ctx context.Context, stats domain.VenueStats) (domain.VenueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats = prepareVenueStats(stats)
	s.venueStats.put(stats.Key(), stats)
	return stats, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
