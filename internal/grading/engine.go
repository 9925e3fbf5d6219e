// Package grading implements the round settlement engine: outcome
// evaluation of every selection in a round, ticket score aggregation and
// the league leaderboard fold, guarded so a round is settled exactly once.
package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fantabet/fantabet/internal/domain/market"
	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/pkg/logger"
	"github.com/fantabet/fantabet/pkg/metrics"
)

// Store is the persistence surface the engine needs. The full repository
// implements it; tests substitute fakes.
type Store interface {
	RoundByID(ctx context.Context, id string) (model.Round, error)
	MatchesByRound(ctx context.Context, roundID string) ([]model.Match, error)
	SelectionsByMatches(ctx context.Context, matchIDs []string) ([]model.Selection, error)
	ReplaceSelectionResults(ctx context.Context, results []model.SelectionResult) error
	ResultsBySelections(ctx context.Context, selectionIDs []string) ([]model.SelectionResult, error)
	TicketsByRound(ctx context.Context, roundID string) ([]model.Ticket, error)
	UpsertTicketScore(ctx context.Context, s model.TicketScore) error
	TicketScoreByTicket(ctx context.Context, ticketID string) (model.TicketScore, error)
	LeaderboardEntry(ctx context.Context, leagueID, userID string) (model.LeaderboardEntry, error)
	UpsertLeaderboardEntry(ctx context.Context, e model.LeaderboardEntry) error
	MarkRoundGraded(ctx context.Context, id string) (bool, error)
}

// Outcome reports what a grading invocation did.
type Outcome struct {
	// Already is true when the round was graded before this call (or a
	// concurrent call won the closing update). Nothing was recomputed.
	Already bool

	// Selections is the number of selections evaluated.
	Selections int

	// Tickets is the number of ticket scores written.
	Tickets int
}

// Engine runs the settlement pipeline for one round at a time. All steps
// before the closing status update are idempotent replaces, so a failed
// invocation can be retried from scratch.
type Engine struct {
	store              Store
	notFound           func(error) bool
	now                func() time.Time
	requireFullResults bool
	logger             logger.Logger
}

// New creates an Engine on top of a store. notFound tells the engine how
// to recognize the store's not-found errors.
func New(store Store, notFound func(error) bool, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notFound: notFound,
		now:      time.Now,
		logger:   logger.Get().Named("grading"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GradeRound settles a round: evaluates every selection against match
// results, writes per-selection results and per-ticket totals, folds the
// totals into the league leaderboard and flips the round to graded.
//
// Calling it on an already graded round is a safe no-op reported through
// Outcome.Already. Any store failure aborts the invocation with the round
// status untouched; a retry redoes the full pipeline.
func (e *Engine) GradeRound(ctx context.Context, roundID string) (Outcome, error) {
	start := e.now()
	defer func() {
		metrics.RecordGradingLatency(float64(time.Since(start).Milliseconds()))
	}()

	round, err := e.store.RoundByID(ctx, roundID)
	if err != nil {
		if e.notFound(err) {
			return Outcome{}, fmt.Errorf("grading: round %s: %w", roundID, ErrRoundNotFound)
		}
		metrics.RecordGradingError()
		return Outcome{}, fmt.Errorf("grading: load round: %w", err)
	}
	if round.Status == model.RoundGraded {
		metrics.RecordRoundAlreadyGraded()
		e.logger.Info(ctx, "round already graded, skipping", logger.String("round_id", roundID))
		return Outcome{Already: true}, nil
	}

	matches, err := e.store.MatchesByRound(ctx, roundID)
	if err != nil {
		metrics.RecordGradingError()
		return Outcome{}, fmt.Errorf("grading: load matches: %w", err)
	}
	if len(matches) == 0 {
		return Outcome{}, fmt.Errorf("grading: round %s: %w", roundID, ErrNoMatches)
	}
	if e.requireFullResults {
		for _, m := range matches {
			if m.FullTime == nil {
				return Outcome{}, fmt.Errorf("grading: match %s: %w", m.ID, ErrMissingResults)
			}
		}
	}

	selections, err := e.gradeSelections(ctx, matches)
	if err != nil {
		metrics.RecordGradingError()
		return Outcome{}, err
	}

	tickets, err := e.aggregateTickets(ctx, roundID, selections)
	if err != nil {
		metrics.RecordGradingError()
		return Outcome{}, err
	}

	if err := e.accumulateLeaderboard(ctx, round.LeagueID, tickets); err != nil {
		metrics.RecordGradingError()
		return Outcome{}, err
	}

	flipped, err := e.store.MarkRoundGraded(ctx, roundID)
	if err != nil {
		metrics.RecordGradingError()
		return Outcome{}, fmt.Errorf("grading: close round: %w", err)
	}
	if !flipped {
		// A concurrent invocation closed the round first. Both computed
		// identical idempotent rows; only one run counts as the grading.
		metrics.RecordRoundAlreadyGraded()
		return Outcome{Already: true}, nil
	}

	metrics.RecordRoundGraded()
	e.logger.Info(ctx, "round graded",
		logger.String("round_id", roundID),
		logger.String("league_id", round.LeagueID),
		logger.Int("selections", len(selections)),
		logger.Int("tickets", len(tickets)),
	)
	return Outcome{Selections: len(selections), Tickets: len(tickets)}, nil
}

// gradeSelections evaluates every selection placed on the given matches
// and replaces their stored results in one logical write. Returns the
// selections so downstream steps can map them to tickets.
func (e *Engine) gradeSelections(ctx context.Context, matches []model.Match) ([]model.Selection, error) {
	matchIDs := make([]string, len(matches))
	byID := make(map[string]model.Match, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
		byID[m.ID] = m
	}

	selections, err := e.store.SelectionsByMatches(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("grading: load selections: %w", err)
	}

	results := make([]model.SelectionResult, 0, len(selections))
	for _, sel := range selections {
		m := byID[sel.MatchID]
		ftH, ftA := scoreOrZero(m.FullTime)
		htH, htA := scoreOrZero(m.HalfTime)

		win := market.Evaluate(sel.Market, sel.Value, ftH, ftA, htH, htA)
		awarded := 0.0
		if win {
			awarded = sel.PointsValue
		}
		results = append(results, model.SelectionResult{
			SelectionID:   sel.ID,
			Win:           win,
			AwardedPoints: awarded,
		})
	}

	if err := e.store.ReplaceSelectionResults(ctx, results); err != nil {
		return nil, fmt.Errorf("grading: persist results: %w", err)
	}
	metrics.RecordSelectionsGraded(len(results))
	return selections, nil
}

// aggregateTickets writes one score row per ticket of the round: the sum
// of the awarded points of the ticket's graded selections. A ticket with
// no selections gets an explicit zero row.
func (e *Engine) aggregateTickets(ctx context.Context, roundID string, selections []model.Selection) ([]model.Ticket, error) {
	tickets, err := e.store.TicketsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("grading: load tickets: %w", err)
	}

	selectionIDs := make([]string, len(selections))
	ticketBySelection := make(map[string]string, len(selections))
	for i, sel := range selections {
		selectionIDs[i] = sel.ID
		ticketBySelection[sel.ID] = sel.TicketID
	}

	results, err := e.store.ResultsBySelections(ctx, selectionIDs)
	if err != nil {
		return nil, fmt.Errorf("grading: load results: %w", err)
	}
	totals := make(map[string]float64, len(tickets))
	for _, r := range results {
		totals[ticketBySelection[r.SelectionID]] += r.AwardedPoints
	}

	now := e.now().UTC()
	for _, t := range tickets {
		score := model.TicketScore{
			TicketID:    t.ID,
			TotalPoints: totals[t.ID],
			UpdatedAt:   now,
		}
		if err := e.store.UpsertTicketScore(ctx, score); err != nil {
			return nil, fmt.Errorf("grading: persist ticket score %s: %w", t.ID, err)
		}
		metrics.RecordTicketScored()
	}
	return tickets, nil
}

// accumulateLeaderboard folds every ticket's just-written total into the
// league's cumulative entry for the ticket's owner. This is the only place
// cumulative totals grow, which is why the guard around GradeRound must
// hold: a second fold for the same round would double-count.
func (e *Engine) accumulateLeaderboard(ctx context.Context, leagueID string, tickets []model.Ticket) error {
	now := e.now().UTC()
	for _, t := range tickets {
		score, err := e.store.TicketScoreByTicket(ctx, t.ID)
		if err != nil {
			metrics.RecordLeaderboardError()
			return fmt.Errorf("grading: read ticket score %s: %w", t.ID, err)
		}

		entry, err := e.store.LeaderboardEntry(ctx, leagueID, t.UserID)
		if err != nil {
			if !e.notFound(err) {
				metrics.RecordLeaderboardError()
				return fmt.Errorf("grading: read leaderboard entry: %w", err)
			}
			entry = model.LeaderboardEntry{LeagueID: leagueID, UserID: t.UserID}
		}

		if err := e.store.UpsertLeaderboardEntry(ctx, entry.Combine(score.TotalPoints, now)); err != nil {
			metrics.RecordLeaderboardError()
			return fmt.Errorf("grading: write leaderboard entry: %w", err)
		}
		metrics.RecordLeaderboardFold()
	}
	return nil
}

// scoreOrZero defaults a missing score pair to 0-0. Matches without an
// entered result grade as goalless; see WithRequireFullResults for the
// strict alternative.
func scoreOrZero(s *model.Score) (int, int) {
	if s == nil {
		return 0, 0
	}
	return s.Home, s.Away
}

// IsNotFoundFunc adapts a sentinel error into the notFound predicate
// expected by New.
func IsNotFoundFunc(sentinel error) func(error) bool {
	return func(err error) bool {
		return errors.Is(err, sentinel)
	}
}
