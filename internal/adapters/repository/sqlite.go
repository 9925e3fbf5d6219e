package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fantabet/fantabet/internal/domain/market"
	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/pkg/metrics"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rounds (
    id        TEXT PRIMARY KEY,
    league_id TEXT NOT NULL,
    name      TEXT NOT NULL,
    status    TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'locked', 'graded'))
);

CREATE TABLE IF NOT EXISTS matches (
    id        TEXT PRIMARY KEY,
    round_id  TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    home_team TEXT NOT NULL,
    away_team TEXT NOT NULL,
    ht_home   INTEGER,
    ht_away   INTEGER,
    ft_home   INTEGER,
    ft_away   INTEGER
);

CREATE TABLE IF NOT EXISTS tickets (
    id       TEXT PRIMARY KEY,
    round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
    user_id  TEXT NOT NULL,
    UNIQUE (round_id, user_id)
);

CREATE TABLE IF NOT EXISTS selections (
    id           TEXT PRIMARY KEY,
    ticket_id    TEXT NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
    match_id     TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    market       TEXT NOT NULL,
    value        TEXT NOT NULL,
    points_value REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS selection_results (
    selection_id   TEXT PRIMARY KEY REFERENCES selections(id) ON DELETE CASCADE,
    is_win         INTEGER NOT NULL DEFAULT 0,
    awarded_points REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ticket_scores (
    ticket_id    TEXT PRIMARY KEY REFERENCES tickets(id) ON DELETE CASCADE,
    total_points REAL NOT NULL DEFAULT 0,
    updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leaderboard (
    league_id     TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    total_points  REAL    NOT NULL DEFAULT 0,
    rounds_played INTEGER NOT NULL DEFAULT 0,
    last_update   TEXT NOT NULL,
    PRIMARY KEY (league_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_matches_round     ON matches(round_id);
CREATE INDEX IF NOT EXISTS idx_tickets_round     ON tickets(round_id);
CREATE INDEX IF NOT EXISTS idx_selections_ticket ON selections(ticket_id);
CREATE INDEX IF NOT EXISTS idx_selections_match  ON selections(match_id);
CREATE INDEX IF NOT EXISTS idx_board_league      ON leaderboard(league_id, total_points DESC);
`

// SQLiteStore implements Store on SQLite (pure Go driver, no CGo).
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at the given path and
// applies the schema. ":memory:" gives an ephemeral store for tests.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository.NewSQLiteStore: open %q: %w", path, err)
	}
	// SQLite is single-writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository.NewSQLiteStore: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository.NewSQLiteStore: apply schema: %w", err)
	}

	s := &SQLiteStore{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateRound inserts a round and its matches in one transaction.
func (s *SQLiteStore) CreateRound(ctx context.Context, round model.Round, matches []model.Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.CreateRound: begin tx: %w", err)
	}
	defer tx.Rollback()

	status := round.Status
	if status == "" {
		status = model.RoundOpen
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (id, league_id, name, status) VALUES (?, ?, ?, ?)`,
		round.ID, round.LeagueID, round.Name, string(status),
	); err != nil {
		return fmt.Errorf("repository.CreateRound: insert round %s: %w", round.ID, err)
	}

	for _, m := range matches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO matches (id, round_id, home_team, away_team, ht_home, ht_away, ft_home, ft_away)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, round.ID, m.HomeTeam, m.AwayTeam,
			scoreHome(m.HalfTime), scoreAway(m.HalfTime),
			scoreHome(m.FullTime), scoreAway(m.FullTime),
		); err != nil {
			return fmt.Errorf("repository.CreateRound: insert match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository.CreateRound: commit: %w", err)
	}
	return nil
}

// RoundByID returns a round by id.
func (s *SQLiteStore) RoundByID(ctx context.Context, id string) (model.Round, error) {
	var r model.Round
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, league_id, name, status FROM rounds WHERE id = ?`, id,
	).Scan(&r.ID, &r.LeagueID, &r.Name, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Round{}, fmt.Errorf("repository.RoundByID: round %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Round{}, fmt.Errorf("repository.RoundByID: %w", err)
	}
	r.Status = model.RoundStatus(status)
	return r, nil
}

// ListRounds returns rounds in creation order, optionally filtered by
// league.
func (s *SQLiteStore) ListRounds(ctx context.Context, leagueID string) ([]model.Round, error) {
	query := `SELECT id, league_id, name, status FROM rounds ORDER BY rowid`
	var args []any
	if leagueID != "" {
		query = `SELECT id, league_id, name, status FROM rounds WHERE league_id = ? ORDER BY rowid`
		args = append(args, leagueID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRounds: query: %w", err)
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		var r model.Round
		var status string
		if err := rows.Scan(&r.ID, &r.LeagueID, &r.Name, &status); err != nil {
			return nil, fmt.Errorf("repository.ListRounds: scan: %w", err)
		}
		r.Status = model.RoundStatus(status)
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// LockRound moves an open round to locked.
func (s *SQLiteStore) LockRound(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET status = 'locked' WHERE id = ? AND status = 'open'`, id)
	if err != nil {
		return false, fmt.Errorf("repository.LockRound: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.LockRound: rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkRoundGraded conditionally flips a round's status to graded. The
// conditional update is the serialization point between concurrent grading
// invocations: exactly one sees a row change.
func (s *SQLiteStore) MarkRoundGraded(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET status = 'graded' WHERE id = ? AND status <> 'graded'`, id)
	if err != nil {
		return false, fmt.Errorf("repository.MarkRoundGraded: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repository.MarkRoundGraded: rows affected: %w", err)
	}
	return n > 0, nil
}

// GradableRounds lists locked rounds with at least one match and no match
// missing a full-time score.
func (s *SQLiteStore) GradableRounds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id FROM rounds r
		WHERE r.status = 'locked'
		  AND EXISTS (SELECT 1 FROM matches m WHERE m.round_id = r.id)
		  AND NOT EXISTS (
		      SELECT 1 FROM matches m
		      WHERE m.round_id = r.id AND (m.ft_home IS NULL OR m.ft_away IS NULL)
		  )
	`)
	if err != nil {
		return nil, fmt.Errorf("repository.GradableRounds: query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository.GradableRounds: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MatchesByRound returns the matches of a round.
func (s *SQLiteStore) MatchesByRound(ctx context.Context, roundID string) ([]model.Match, error) {
	start := s.now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, round_id, home_team, away_team, ht_home, ht_away, ft_home, ft_away
		FROM matches WHERE round_id = ?
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("repository.MatchesByRound: query: %w", err)
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		var m model.Match
		var htH, htA, ftH, ftA sql.NullInt64
		if err := rows.Scan(&m.ID, &m.RoundID, &m.HomeTeam, &m.AwayTeam, &htH, &htA, &ftH, &ftA); err != nil {
			return nil, fmt.Errorf("repository.MatchesByRound: scan: %w", err)
		}
		m.HalfTime = pairToScore(htH, htA)
		m.FullTime = pairToScore(ftH, ftA)
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetMatchResult records half-time and full-time scores for a match.
func (s *SQLiteStore) SetMatchResult(ctx context.Context, matchID string, halfTime, fullTime *model.Score) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET ht_home = ?, ht_away = ?, ft_home = ?, ft_away = ? WHERE id = ?`,
		scoreHome(halfTime), scoreAway(halfTime), scoreHome(fullTime), scoreAway(fullTime), matchID,
	)
	if err != nil {
		return fmt.Errorf("repository.SetMatchResult: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository.SetMatchResult: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repository.SetMatchResult: match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

// TicketByRoundAndUser returns the user's ticket for a round.
func (s *SQLiteStore) TicketByRoundAndUser(ctx context.Context, roundID, userID string) (model.Ticket, error) {
	var t model.Ticket
	err := s.db.QueryRowContext(ctx,
		`SELECT id, round_id, user_id FROM tickets WHERE round_id = ? AND user_id = ?`,
		roundID, userID,
	).Scan(&t.ID, &t.RoundID, &t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, fmt.Errorf("repository.TicketByRoundAndUser: %w", ErrNotFound)
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("repository.TicketByRoundAndUser: %w", err)
	}
	return t, nil
}

// CreateTicket inserts a ticket.
func (s *SQLiteStore) CreateTicket(ctx context.Context, t model.Ticket) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets (id, round_id, user_id) VALUES (?, ?, ?)`,
		t.ID, t.RoundID, t.UserID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("repository.CreateTicket: ticket for (%s, %s): %w", t.RoundID, t.UserID, ErrConflict)
		}
		return fmt.Errorf("repository.CreateTicket: %w", err)
	}
	return nil
}

// TicketsByRound returns all tickets submitted for a round.
func (s *SQLiteStore) TicketsByRound(ctx context.Context, roundID string) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, round_id, user_id FROM tickets WHERE round_id = ?`, roundID)
	if err != nil {
		return nil, fmt.Errorf("repository.TicketsByRound: query: %w", err)
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.RoundID, &t.UserID); err != nil {
			return nil, fmt.Errorf("repository.TicketsByRound: scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceSelections drops a ticket's selections and inserts the given set.
func (s *SQLiteStore) ReplaceSelections(ctx context.Context, ticketID string, sels []model.Selection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.ReplaceSelections: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selections WHERE ticket_id = ?`, ticketID); err != nil {
		return fmt.Errorf("repository.ReplaceSelections: delete: %w", err)
	}
	for _, sel := range sels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO selections (id, ticket_id, match_id, market, value, points_value)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sel.ID, ticketID, sel.MatchID, string(sel.Market), sel.Value, sel.PointsValue,
		); err != nil {
			return fmt.Errorf("repository.ReplaceSelections: insert %s: %w", sel.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository.ReplaceSelections: commit: %w", err)
	}
	return nil
}

// SelectionsByMatches returns every selection placed on the given matches.
func (s *SQLiteStore) SelectionsByMatches(ctx context.Context, matchIDs []string) ([]model.Selection, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	start := s.now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	query := `SELECT id, ticket_id, match_id, market, value, points_value
	          FROM selections WHERE match_id IN (` + placeholders(len(matchIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, toArgs(matchIDs)...)
	if err != nil {
		return nil, fmt.Errorf("repository.SelectionsByMatches: query: %w", err)
	}
	defer rows.Close()

	var out []model.Selection
	for rows.Next() {
		var sel model.Selection
		var mkt string
		if err := rows.Scan(&sel.ID, &sel.TicketID, &sel.MatchID, &mkt, &sel.Value, &sel.PointsValue); err != nil {
			return nil, fmt.Errorf("repository.SelectionsByMatches: scan: %w", err)
		}
		sel.Market = market.Market(mkt)
		out = append(out, sel)
	}
	return out, rows.Err()
}

// ReplaceSelectionResults deletes any prior results for the given results'
// selection ids, then inserts the fresh set. One transaction, so a grading
// run never leaves a partial overlap of old and new rows.
func (s *SQLiteStore) ReplaceSelectionResults(ctx context.Context, results []model.SelectionResult) error {
	if len(results) == 0 {
		return nil
	}
	start := s.now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.SelectionID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository.ReplaceSelectionResults: begin tx: %w", err)
	}
	defer tx.Rollback()

	del := `DELETE FROM selection_results WHERE selection_id IN (` + placeholders(len(ids)) + `)`
	if _, err := tx.ExecContext(ctx, del, toArgs(ids)...); err != nil {
		return fmt.Errorf("repository.ReplaceSelectionResults: delete: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO selection_results (selection_id, is_win, awarded_points) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("repository.ReplaceSelectionResults: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		win := 0
		if r.Win {
			win = 1
		}
		if _, err := stmt.ExecContext(ctx, r.SelectionID, win, r.AwardedPoints); err != nil {
			return fmt.Errorf("repository.ReplaceSelectionResults: insert %s: %w", r.SelectionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository.ReplaceSelectionResults: commit: %w", err)
	}
	return nil
}

// ResultsBySelections returns the stored results for the given selection ids.
func (s *SQLiteStore) ResultsBySelections(ctx context.Context, selectionIDs []string) ([]model.SelectionResult, error) {
	if len(selectionIDs) == 0 {
		return nil, nil
	}
	query := `SELECT selection_id, is_win, awarded_points
	          FROM selection_results WHERE selection_id IN (` + placeholders(len(selectionIDs)) + `)`
	rows, err := s.db.QueryContext(ctx, query, toArgs(selectionIDs)...)
	if err != nil {
		return nil, fmt.Errorf("repository.ResultsBySelections: query: %w", err)
	}
	defer rows.Close()

	var out []model.SelectionResult
	for rows.Next() {
		var r model.SelectionResult
		var win int
		if err := rows.Scan(&r.SelectionID, &win, &r.AwardedPoints); err != nil {
			return nil, fmt.Errorf("repository.ResultsBySelections: scan: %w", err)
		}
		r.Win = win == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertTicketScore creates or replaces a ticket's score row.
func (s *SQLiteStore) UpsertTicketScore(ctx context.Context, sc model.TicketScore) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ticket_scores (ticket_id, total_points, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(ticket_id) DO UPDATE SET
			total_points = excluded.total_points,
			updated_at   = excluded.updated_at
	`, sc.TicketID, sc.TotalPoints, sc.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("repository.UpsertTicketScore: %w", err)
	}
	return nil
}

// TicketScoreByTicket returns a ticket's score.
func (s *SQLiteStore) TicketScoreByTicket(ctx context.Context, ticketID string) (model.TicketScore, error) {
	var sc model.TicketScore
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT ticket_id, total_points, updated_at FROM ticket_scores WHERE ticket_id = ?`,
		ticketID,
	).Scan(&sc.TicketID, &sc.TotalPoints, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TicketScore{}, fmt.Errorf("repository.TicketScoreByTicket: ticket %s: %w", ticketID, ErrNotFound)
	}
	if err != nil {
		return model.TicketScore{}, fmt.Errorf("repository.TicketScoreByTicket: %w", err)
	}
	sc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return sc, nil
}

// LeaderboardEntry returns the cumulative entry for (league, user).
func (s *SQLiteStore) LeaderboardEntry(ctx context.Context, leagueID, userID string) (model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry
	var updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT league_id, user_id, total_points, rounds_played, last_update
		FROM leaderboard WHERE league_id = ? AND user_id = ?
	`, leagueID, userID).Scan(&e.LeagueID, &e.UserID, &e.TotalPoints, &e.RoundsPlayed, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LeaderboardEntry{}, fmt.Errorf("repository.LeaderboardEntry: (%s, %s): %w", leagueID, userID, ErrNotFound)
	}
	if err != nil {
		return model.LeaderboardEntry{}, fmt.Errorf("repository.LeaderboardEntry: %w", err)
	}
	e.LastUpdate, _ = time.Parse(time.RFC3339Nano, updated)
	return e, nil
}

// UpsertLeaderboardEntry creates or replaces a leaderboard entry.
func (s *SQLiteStore) UpsertLeaderboardEntry(ctx context.Context, e model.LeaderboardEntry) error {
	start := s.now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (league_id, user_id, total_points, rounds_played, last_update)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(league_id, user_id) DO UPDATE SET
			total_points  = excluded.total_points,
			rounds_played = excluded.rounds_played,
			last_update   = excluded.last_update
	`, e.LeagueID, e.UserID, e.TotalPoints, e.RoundsPlayed, e.LastUpdate.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("repository.UpsertLeaderboardEntry: %w", err)
	}
	return nil
}

// TopLeaderboard returns a league's entries ordered by total desc. Ties
// break on user id so pagination stays stable.
func (s *SQLiteStore) TopLeaderboard(ctx context.Context, leagueID string, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT league_id, user_id, total_points, rounds_played, last_update
		FROM leaderboard WHERE league_id = ?
		ORDER BY total_points DESC, user_id ASC
		LIMIT ?
	`, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.TopLeaderboard: query: %w", err)
	}
	defer rows.Close()

	var out []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var updated string
		if err := rows.Scan(&e.LeagueID, &e.UserID, &e.TotalPoints, &e.RoundsPlayed, &updated); err != nil {
			return nil, fmt.Errorf("repository.TopLeaderboard: scan: %w", err)
		}
		e.LastUpdate, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RoundBoard returns a round's tickets with their totals, best first.
func (s *SQLiteStore) RoundBoard(ctx context.Context, roundID string) ([]BoardRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, COALESCE(ts.total_points, 0)
		FROM tickets t
		LEFT JOIN ticket_scores ts ON ts.ticket_id = t.id
		WHERE t.round_id = ?
		ORDER BY COALESCE(ts.total_points, 0) DESC, t.user_id ASC
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("repository.RoundBoard: query: %w", err)
	}
	defer rows.Close()

	var out []BoardRow
	for rows.Next() {
		var r BoardRow
		if err := rows.Scan(&r.TicketID, &r.UserID, &r.TotalPoints); err != nil {
			return nil, fmt.Errorf("repository.RoundBoard: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- internal helpers ---

// placeholders builds "?, ?, ..." for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toArgs widens a string slice for variadic query arguments.
func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// pairToScore converts a nullable column pair to a Score. Both columns must
// be present; a half-entered result stays nil.
func pairToScore(h, a sql.NullInt64) *model.Score {
	if !h.Valid || !a.Valid {
		return nil
	}
	return &model.Score{Home: int(h.Int64), Away: int(a.Int64)}
}

// scoreHome and scoreAway flatten an optional Score back to nullable columns.
func scoreHome(s *model.Score) any {
	if s == nil {
		return nil
	}
	return s.Home
}

func scoreAway(s *model.Score) any {
	if s == nil {
		return nil
	}
	return s.Away
}
