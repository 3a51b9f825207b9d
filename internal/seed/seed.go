// Package seed loads the bundled reference data and applies it to a repository.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/store"
)

//go:embed seed.yaml
var bundled []byte

// Profile holds the team knowledge the heuristic predictor relies on.
type Profile struct {
	StrongTeam string            `yaml:"strongTeam"`
	HomeVenues map[string]string `yaml:"homeVenues"`
}

// IsHome reports whether venueID is teamID's home ground.
func (p Profile) IsHome(teamID, venueID string) bool {
	home, ok := p.HomeVenues[teamID]
	return ok && home == venueID
}

// Data is the full seed document.
type Data struct {
	Profile    Profile                  `yaml:"profile"`
	Teams      []domain.Team            `yaml:"teams"`
	Venues     []domain.Venue           `yaml:"venues"`
	HeadToHead []domain.HeadToHeadStats `yaml:"headToHead"`
	TeamStats  []domain.TeamStats       `yaml:"teamStats"`
	VenueStats []domain.VenueStats      `yaml:"venueStats"`
}

// Load parses the bundled seed document.
func Load() (Data, error) {
	return Parse(bundled)
}

// Parse decodes a seed document and checks the stats invariants.
func Parse(raw []byte) (Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}
	for _, h := range data.HeadToHead {
		if err := h.Validate(); err != nil {
			return Data{}, fmt.Errorf("seed head-to-head %s: %w", h.Key(), err)
		}
	}
	for _, s := range data.TeamStats {
		if err := s.Validate(); err != nil {
			return Data{}, fmt.Errorf("seed team stats %s: %w", s.ID, err)
		}
	}
	for _, s := range data.VenueStats {
		if err := s.Validate(); err != nil {
			return Data{}, fmt.Errorf("seed venue stats %s: %w", s.Key(), err)
		}
	}
	return data, nil
}

// Apply writes every seed record into repo. Existing records with the same
// keys are overwritten, so applying twice is harmless.
func Apply(ctx context.Context, repo store.Repository, data Data) error {
	for _, t := range data.Teams {
		if _, err := repo.CreateTeam(ctx, t); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}
	for _, v := range data.Venues {
		if _, err := repo.CreateVenue(ctx, v); err != nil {
			return fmt.Errorf("seed venue %s: %w", v.ID, err)
		}
	}
	for _, h := range data.HeadToHead {
		if _, err := repo.CreateHeadToHead(ctx, h); err != nil {
			return fmt.Errorf("seed head-to-head %s: %w", h.Key(), err)
		}
	}
	for _, s := range data.TeamStats {
		if _, err := repo.CreateTeamStats(ctx, s); err != nil {
			return fmt.Errorf("seed team stats %s: %w", s.TeamID, err)
		}
	}
	for _, s := range data.VenueStats {
		if _, err := repo.CreateVenueStats(ctx, s); err != nil {
			return fmt.Errorf("seed venue stats %s: %w", s.Key(), err)
		}
	}
	return nil
}
