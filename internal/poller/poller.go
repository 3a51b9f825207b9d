// Package poller keeps the repository's historical stats in step with the
// ML service on a fixed interval.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
	"github.com/preston-bernstein/cricket-insights-service/internal/logging"
	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
)

const defaultInterval = 15 * time.Minute

// Source serves the upstream stats records. A false result means the
// upstream has no record.
type Source interface {
	HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error)
	TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error)
	VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error)
}

// Repository lists the catalogue to sync and stores what was fetched.
type Repository interface {
	Teams(ctx context.Context) ([]domain.Team, error)
	Venues(ctx context.Context) ([]domain.Venue, error)
	CreateHeadToHead(ctx context.Context, stats domain.HeadToHeadStats) (domain.HeadToHeadStats, error)
	CreateTeamStats(ctx context.Context, stats domain.TeamStats) (domain.TeamStats, error)
	CreateVenueStats(ctx context.Context, stats domain.VenueStats) (domain.VenueStats, error)
}

// Result counts the records written by one cycle.
type Result struct {
	HeadToHead int
	TeamStats  int
	VenueStats int
	Skipped    int
}

// Poller pulls head-to-head, team and venue stats on an interval and writes
// them into the repository.
type Poller struct {
	source   Source
	repo     Repository
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the sync loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the sync has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(source Source, repo Repository, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		source:   source,
		repo:     repo,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins syncing until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "stats sync started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Sync once on boot so readiness does not wait a full interval.
		p.syncOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "stats sync stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "stats sync stopped")
				return
			case <-p.ticker.C:
				p.syncOnce(ctx)
			}
		}
	}()
}

// Stop halts the sync loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

func (p *Poller) syncOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	res, err := p.sync(ctx)
	p.metrics.RecordSyncCycle(time.Since(start), err)
	if err != nil {
		logging.Error(p.logger, "stats sync failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}

	p.recordSuccess(start)
	logging.Info(p.logger, "stats sync complete",
		slog.Int("head_to_head", res.HeadToHead),
		slog.Int("team_stats", res.TeamStats),
		slog.Int("venue_stats", res.VenueStats),
		slog.Int("skipped", res.Skipped),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
}

// sync runs one full pass. The first upstream or storage error ends the
// pass; records written before it are kept.
func (p *Poller) sync(ctx context.Context) (Result, error) {
	var res Result
	teams, err := p.repo.Teams(ctx)
	if err != nil {
		return res, fmt.Errorf("list teams: %w", err)
	}
	venues, err := p.repo.Venues(ctx)
	if err != nil {
		return res, fmt.Errorf("list venues: %w", err)
	}

	for _, team := range teams {
		st, ok, err := p.source.TeamStats(ctx, team.ID)
		if err != nil {
			return res, fmt.Errorf("team stats %s: %w", team.ID, err)
		}
		if !ok {
			continue
		}
		if !p.valid(st.Validate(), slog.String(logging.FieldTeamID, team.ID)) {
			res.Skipped++
			continue
		}
		if _, err := p.repo.CreateTeamStats(ctx, st); err != nil {
			return res, fmt.Errorf("store team stats %s: %w", team.ID, err)
		}
		res.TeamStats++
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			a, b := teams[i].ID, teams[j].ID
			h, ok, err := p.source.HeadToHead(ctx, a, b)
			if err != nil {
				return res, fmt.Errorf("head-to-head %s: %w", domain.PairKey(a, b), err)
			}
			if !ok {
				continue
			}
			if !p.valid(h.Validate(), slog.String(logging.FieldPair, domain.PairKey(a, b))) {
				res.Skipped++
				continue
			}
			if _, err := p.repo.CreateHeadToHead(ctx, h); err != nil {
				return res, fmt.Errorf("store head-to-head %s: %w", domain.PairKey(a, b), err)
			}
			res.HeadToHead++
		}
	}

	for _, venue := range venues {
		records, err := p.source.VenueStats(ctx, venue.ID)
		if err != nil {
			return res, fmt.Errorf("venue stats %s: %w", venue.ID, err)
		}
		for _, vs := range records {
			if !p.valid(vs.Validate(), slog.String(logging.FieldVenueID, venue.ID)) {
				res.Skipped++
				continue
			}
			if _, err := p.repo.CreateVenueStats(ctx, vs); err != nil {
				return res, fmt.Errorf("store venue stats %s: %w", vs.Key(), err)
			}
			res.VenueStats++
		}
	}
	return res, nil
}

func (p *Poller) valid(err error, attrs ...any) bool {
	if err == nil {
		return true
	}
	logging.Warn(p.logger, "stats sync skipped record", append(attrs, slog.String("reason", err.Error()))...)
	return false
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the sync loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
