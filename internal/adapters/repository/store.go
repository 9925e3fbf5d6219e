// Package repository defines the persistence contract consumed by the
// grading engine and the HTTP layer, plus its SQLite implementation.
package repository

import (
	"context"

	"github.com/fantabet/fantabet/internal/domain/model"
)

// BoardRow is one line of a round board: a ticket and its current total.
type BoardRow struct {
	TicketID    string  `json:"ticket_id"`
	UserID      string  `json:"user_id"`
	TotalPoints float64 `json:"total_points"`
}

// Store provides read/write access to pool state. Implementations decide
// how operations execute; callers only rely on the semantics documented
// here.
type Store interface {
	// CreateRound inserts a round and its matches in one transaction.
	CreateRound(ctx context.Context, round model.Round, matches []model.Match) error

	// RoundByID returns a round. Returns ErrNotFound if the id is unknown.
	RoundByID(ctx context.Context, id string) (model.Round, error)

	// ListRounds returns rounds in creation order. An empty leagueID
	// returns every round.
	ListRounds(ctx context.Context, leagueID string) ([]model.Round, error)

	// LockRound moves an open round to locked. Returns false when the round
	// was not open (no state change).
	LockRound(ctx context.Context, id string) (bool, error)

	// MarkRoundGraded conditionally flips status to graded. Returns true if
	// this call performed the transition, false if the round was already
	// graded. Concurrent graders serialize on this update.
	MarkRoundGraded(ctx context.Context, id string) (bool, error)

	// GradableRounds lists locked rounds whose matches all have a recorded
	// full-time score.
	GradableRounds(ctx context.Context) ([]string, error)

	// MatchesByRound returns the matches of a round.
	MatchesByRound(ctx context.Context, roundID string) ([]model.Match, error)

	// SetMatchResult records half-time and full-time scores for a match.
	// Returns ErrNotFound if the match is unknown.
	SetMatchResult(ctx context.Context, matchID string, halfTime, fullTime *model.Score) error

	// TicketByRoundAndUser returns the user's ticket for a round.
	// Returns ErrNotFound when the user has not submitted yet.
	TicketByRoundAndUser(ctx context.Context, roundID, userID string) (model.Ticket, error)

	// CreateTicket inserts a ticket.
	CreateTicket(ctx context.Context, t model.Ticket) error

	// TicketsByRound returns all tickets submitted for a round.
	TicketsByRound(ctx context.Context, roundID string) ([]model.Ticket, error)

	// ReplaceSelections drops a ticket's selections and inserts the given
	// set, as one transaction.
	ReplaceSelections(ctx context.Context, ticketID string, sels []model.Selection) error

	// SelectionsByMatches returns every selection placed on the given
	// matches, across all tickets.
	SelectionsByMatches(ctx context.Context, matchIDs []string) ([]model.Selection, error)

	// ReplaceSelectionResults deletes any prior results for the results'
	// selection ids and inserts the given set, as one transaction. A grading
	// run fully supersedes any earlier one.
	ReplaceSelectionResults(ctx context.Context, results []model.SelectionResult) error

	// ResultsBySelections returns the stored results for the given
	// selection ids.
	ResultsBySelections(ctx context.Context, selectionIDs []string) ([]model.SelectionResult, error)

	// UpsertTicketScore creates or replaces a ticket's score row.
	UpsertTicketScore(ctx context.Context, s model.TicketScore) error

	// TicketScoreByTicket returns a ticket's score. Returns ErrNotFound
	// when the ticket has not been aggregated yet.
	TicketScoreByTicket(ctx context.Context, ticketID string) (model.TicketScore, error)

	// LeaderboardEntry returns the cumulative entry for (league, user).
	// Returns ErrNotFound when the user has no graded rounds in the league.
	LeaderboardEntry(ctx context.Context, leagueID, userID string) (model.LeaderboardEntry, error)

	// UpsertLeaderboardEntry creates or replaces a leaderboard entry.
	UpsertLeaderboardEntry(ctx context.Context, e model.LeaderboardEntry) error

	// TopLeaderboard returns a league's entries ordered by total desc.
	TopLeaderboard(ctx context.Context, leagueID string, limit int) ([]model.LeaderboardEntry, error)

	// RoundBoard returns a round's tickets with their totals, best first.
	// Tickets without a score row appear with a zero total.
	RoundBoard(ctx context.Context, roundID string) ([]BoardRow, error)

	// Close releases the underlying connection.
	Close() error
}
