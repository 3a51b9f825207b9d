package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/preston-bernstein/cricket-insights-service/internal/domain"
)

const sqliteDriver = "sqlite"

// Each table keys on scalar columns and stores the record as JSON. Rowid
// order doubles as insertion order for listings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS venues (id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS matches (id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS predictions (id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS head_to_head (
		pair_key TEXT PRIMARY KEY,
		team1_id TEXT NOT NULL,
		team2_id TEXT NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_stats (team_id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS venue_stats (
		pair_key TEXT PRIMARY KEY,
		venue_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS venue_stats_venue ON venue_stats (venue_id)`,
}

// SQLiteStore persists entities in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Teams(ctx context.Context) ([]domain.Team, error) {
	return listJSON[domain.Team](ctx, s.db, `SELECT body FROM teams ORDER BY rowid`)
}

func (s *SQLiteStore) Team(ctx context.Context, id string) (domain.Team, bool, error) {
	return getJSON[domain.Team](ctx, s.db, `SELECT body FROM teams WHERE id = ?`, id)
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	team.ID = withID(team.ID)
	return team, s.upsertByID(ctx, "teams", team.ID, team)
}

func (s *SQLiteStore) Venues(ctx context.Context) ([]domain.Venue, error) {
	return listJSON[domain.Venue](ctx, s.db, `SELECT body FROM venues ORDER BY rowid`)
}

func (s *SQLiteStore) Venue(ctx context.Context, id string) (domain.Venue, bool, error) {
	return getJSON[domain.Venue](ctx, s.db, `SELECT body FROM venues WHERE id = ?`, id)
}

func (s *SQLiteStore) CreateVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	venue.ID = withID(venue.ID)
	return venue, s.upsertByID(ctx, "venues", venue.ID, venue)
}

func (s *SQLiteStore) Matches(ctx context.Context) ([]domain.Match, error) {
	return listJSON[domain.Match](ctx, s.db, `SELECT body FROM matches ORDER BY rowid`)
}

func (s *SQLiteStore) Match(ctx context.Context, id string) (domain.Match, bool, error) {
	return getJSON[domain.Match](ctx, s.db, `SELECT body FROM matches WHERE id = ?`, id)
}

func (s *SQLiteStore) CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error) {
	match.ID = withID(match.ID)
	return match, s.upsertByID(ctx, "matches", match.ID, match)
}

func (s *SQLiteStore) Predictions(ctx context.Context) ([]domain.Prediction, error) {
	return listJSON[domain.Prediction](ctx, s.db, `SELECT body FROM predictions ORDER BY rowid`)
}

func (s *SQLiteStore) Prediction(ctx context.Context, id string) (domain.Prediction, bool, error) {
	return getJSON[domain.Prediction](ctx, s.db, `SELECT body FROM predictions WHERE id = ?`, id)
}

func (s *SQLiteStore) CreatePrediction(ctx context.Context, prediction domain.Prediction) (domain.Prediction, error) {
	prediction.ID = withID(prediction.ID)
	return prediction, s.upsertByID(ctx, "predictions", prediction.ID, prediction)
}

func (s *SQLiteStore) CreatePredictionWithMatch(ctx context.Context, match domain.Match, prediction domain.Prediction) (domain.Match, domain.Prediction, error) {
	match.ID = withID(match.ID)
	prediction.ID = withID(prediction.ID)
	prediction.MatchID = &match.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return match, prediction, fmt.Errorf("begin prediction write: %w", err)
	}
	defer tx.Rollback()

	if err := upsertByID(ctx, tx, "matches", match.ID, match); err != nil {
		return match, prediction, err
	}
	if err := upsertByID(ctx, tx, "predictions", prediction.ID, prediction); err != nil {
		return match, prediction, err
	}
	if err := tx.Commit(); err != nil {
		return match, prediction, fmt.Errorf("commit prediction write: %w", err)
	}
	return match, prediction, nil
}

func (s *SQLiteStore) HeadToHead(ctx context.Context, team1ID, team2ID string) (domain.HeadToHeadStats, bool, error) {
	h, ok, err := getJSON[domain.HeadToHeadStats](ctx, s.db,
		`SELECT body FROM head_to_head WHERE pair_key = ?`, domain.PairKey(team1ID, team2ID))
	if err != nil || ok {
		return h, ok, err
	}
	return getJSON[domain.HeadToHeadStats](ctx, s.db,
		`SELECT body FROM head_to_head WHERE pair_key = ?`, domain.PairKey(team2ID, team1ID))
}

// CreateHeadToHead replaces any record stored for the pair in either order.
func (s *SQLiteStore) CreateHeadToHead(ctx context.Context, stats domain.HeadToHeadStats) (domain.HeadToHeadStats, error) {
	stats.ID = withID(stats.ID)
	body, err := json.Marshal(stats)
	if err != nil {
		return stats, fmt.Errorf("encode head-to-head: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin head-to-head write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM head_to_head WHERE pair_key = ?`,
		domain.PairKey(stats.Team2ID, stats.Team1ID)); err != nil {
		return stats, fmt.Errorf("clear reverse head-to-head: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO head_to_head (pair_key, team1_id, team2_id, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(pair_key) DO UPDATE SET team1_id = excluded.team1_id, team2_id = excluded.team2_id, body = excluded.body`,
		stats.Key(), stats.Team1ID, stats.Team2ID, string(body)); err != nil {
		return stats, fmt.Errorf("write head-to-head: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit head-to-head: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, bool, error) {
	st, ok, err := getJSON[domain.TeamStats](ctx, s.db, `SELECT body FROM team_stats WHERE team_id = ?`, teamID)
	if !ok || err != nil {
		return st, ok, err
	}
	return st.Clone(), true, nil
}

func (s *SQLiteStore) CreateTeamStats(ctx context.Context, stats domain.TeamStats) (domain.TeamStats, error) {
	stats = prepareTeamStats(stats)
	body, err := json.Marshal(stats)
	if err != nil {
		return stats, fmt.Errorf("encode team stats: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO team_stats (team_id, body) VALUES (?, ?)
		 ON CONFLICT(team_id) DO UPDATE SET body = excluded.body`,
		stats.TeamID, string(body))
	if err != nil {
		return stats, fmt.Errorf("write team stats: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) VenueStats(ctx context.Context, venueID string) ([]domain.VenueStats, error) {
	return listJSON[domain.VenueStats](ctx, s.db,
		`SELECT body FROM venue_stats WHERE venue_id = ? ORDER BY rowid`, venueID)
}

func (s *SQLiteStore) VenueTeamStats(ctx context.Context, venueID, teamID string) (domain.VenueStats, bool, error) {
	return getJSON[domain.VenueStats](ctx, s.db,
		`SELECT body FROM venue_stats WHERE pair_key = ?`, domain.PairKey(venueID, teamID))
}

func (s *SQLiteStore) CreateVenueStats(ctx context.Context, stats domain.VenueStats) (domain.VenueStats, error) {
	stats = prepareVenueStats(stats)
	body, err := json.Marshal(stats)
	if err != nil {
		return stats, fmt.Errorf("encode venue stats: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO venue_stats (pair_key, venue_id, team_id, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(pair_key) DO UPDATE SET body = excluded.body`,
		stats.Key(), stats.VenueID, stats.TeamID, string(body))
	if err != nil {
		return stats, fmt.Errorf("write venue stats: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) upsertByID(ctx context.Context, tableName, id string, record any) error {
	return upsertByID(ctx, s.db, tableName, id, record)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsertByID writes a record into a table keyed by id. The table name is
// always a package constant, never caller input.
func upsertByID(ctx context.Context, db execer, tableName, id string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", tableName, err)
	}
	query := `INSERT INTO ` + tableName + ` (id, body) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body`
	if _, err := db.ExecContext(ctx, query, id, string(body)); err != nil {
		return fmt.Errorf("write %s: %w", tableName, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, bool, error) {
	var zero T
	var body string
	err := db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("query sqlite: %w", err)
	}
	var out T
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return zero, false, fmt.Errorf("decode sqlite row: %w", err)
	}
	return out, true, nil
}

func listJSON[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sqlite: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan sqlite row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("decode sqlite row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sqlite rows: %w", err)
	}
	return out, nil
}
