// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fantabet/fantabet/internal/adapters/autograde"
	"github.com/fantabet/fantabet/internal/adapters/http/api"
	"github.com/fantabet/fantabet/internal/adapters/repository"
	"github.com/fantabet/fantabet/internal/domain/market"
	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/internal/grading"
	"github.com/fantabet/fantabet/pkg/logger"
	"github.com/fantabet/fantabet/pkg/metrics"
)

// Service implements the API dependencies for the prediction pool system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	engine     *grading.Engine
	autograder *autograde.Autograder

	// Configuration
	dbPath             string
	requireFullResults bool
	autogradeEnabled   bool
	autogradeInterval  time.Duration
	autogradeQueueCap  int

	// Rough liveness counters for stats and gauges.
	roundsCreated  atomic.Int64
	ticketsCreated atomic.Int64

	// State
	started bool

	// Logging
	logger logger.Logger

	newID func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite database path.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithStore sets a pre-built store, bypassing WithDBPath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRequireFullResults makes grading refuse rounds with unresulted matches.
func WithRequireFullResults(require bool) Option {
	return func(s *Service) {
		s.requireFullResults = require
	}
}

// WithAutograde toggles the background grading poller.
func WithAutograde(enabled bool) Option {
	return func(s *Service) {
		s.autogradeEnabled = enabled
	}
}

// WithAutogradeInterval sets the autograde poll interval.
func WithAutogradeInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.autogradeInterval = d
		}
	}
}

// WithAutogradeQueueSize sets the autograde queue capacity.
func WithAutogradeQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.autogradeQueueCap = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator sets the id generator, useful for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:            "fantabet.db",
		autogradeInterval: 15 * time.Second,
		autogradeQueueCap: 1024,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting grading service...")

	if s.store == nil {
		store, err := repository.NewSQLiteStore(s.dbPath)
		if err != nil {
			return fmt.Errorf("service.Start: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.dbPath))
	}

	s.engine = grading.New(s.store,
		grading.IsNotFoundFunc(repository.ErrNotFound),
		grading.WithRequireFullResults(s.requireFullResults),
	)

	if s.autogradeEnabled {
		s.autograder = autograde.New(s.store, s.engine,
			autograde.WithInterval(s.autogradeInterval),
			autograde.WithQueue(autograde.NewInMemoryQueue(
				autograde.WithQueueCapacity(s.autogradeQueueCap),
			)),
		)
		s.autograder.Start(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "grading service started",
		logger.Any("autograde", s.autogradeEnabled),
		logger.Any("require_full_results", s.requireFullResults),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping grading service...")

	if s.autograder != nil {
		if err := s.autograder.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "autograder shutdown failed", logger.Error(err))
		}
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "grading service stopped")
}

// CreateRound opens a round with its fixtures.
func (s *Service) CreateRound(ctx context.Context, leagueID, name string, fixtures []api.Fixture) (model.Round, []model.Match, error) {
	round := model.Round{
		ID:       s.newID(),
		LeagueID: leagueID,
		Name:     name,
		Status:   model.RoundOpen,
	}
	matches := make([]model.Match, len(fixtures))
	for i, f := range fixtures {
		matches[i] = model.Match{
			ID:       s.newID(),
			RoundID:  round.ID,
			HomeTeam: f.HomeTeam,
			AwayTeam: f.AwayTeam,
		}
	}
	if err := s.store.CreateRound(ctx, round, matches); err != nil {
		return model.Round{}, nil, fmt.Errorf("service.CreateRound: %w", err)
	}
	metrics.UpdateTotalRounds(int(s.roundsCreated.Add(1)))
	s.logger.Info(ctx, "round created",
		logger.String("round_id", round.ID),
		logger.String("league_id", leagueID),
		logger.Int("matches", len(matches)),
	)
	return round, matches, nil
}

// Round returns a round and its matches.
func (s *Service) Round(ctx context.Context, id string) (model.Round, []model.Match, error) {
	round, err := s.store.RoundByID(ctx, id)
	if err != nil {
		return model.Round{}, nil, fmt.Errorf("service.Round: %w", err)
	}
	matches, err := s.store.MatchesByRound(ctx, id)
	if err != nil {
		return model.Round{}, nil, fmt.Errorf("service.Round: %w", err)
	}
	return round, matches, nil
}

// Rounds lists rounds, optionally restricted to one league.
func (s *Service) Rounds(ctx context.Context, leagueID string) ([]model.Round, error) {
	rounds, err := s.store.ListRounds(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("service.Rounds: %w", err)
	}
	return rounds, nil
}

// LockRound closes a round for submissions.
func (s *Service) LockRound(ctx context.Context, id string) (bool, error) {
	changed, err := s.store.LockRound(ctx, id)
	if err != nil {
		return false, fmt.Errorf("service.LockRound: %w", err)
	}
	if changed {
		s.logger.Info(ctx, "round locked", logger.String("round_id", id))
	}
	return changed, nil
}

// RecordResult stores a match result.
func (s *Service) RecordResult(ctx context.Context, matchID string, halfTime, fullTime *model.Score) error {
	if err := s.store.SetMatchResult(ctx, matchID, halfTime, fullTime); err != nil {
		return fmt.Errorf("service.RecordResult: %w", err)
	}
	s.logger.Info(ctx, "match result recorded", logger.String("match_id", matchID))
	return nil
}

// SubmitTicket creates or replaces the user's ticket for a round. Picks
// are validated against the round's matches and the market catalog; the
// nominal points of each market are captured at submission time.
func (s *Service) SubmitTicket(ctx context.Context, roundID, userID string, picks []api.Pick) (model.Ticket, error) {
	const op = "service.SubmitTicket"

	round, err := s.store.RoundByID(ctx, roundID)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	if round.Status != model.RoundOpen {
		return model.Ticket{}, fmt.Errorf("%s: round %s: %w", op, roundID, model.ErrRoundNotOpen)
	}

	matches, err := s.store.MatchesByRound(ctx, roundID)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	known := make(map[string]bool, len(matches))
	for _, m := range matches {
		known[m.ID] = true
	}

	selections := make([]model.Selection, len(picks))
	for i, p := range picks {
		if !known[p.MatchID] {
			return model.Ticket{}, fmt.Errorf("%s: match %s not in round: %w", op, p.MatchID, repository.ErrNotFound)
		}
		points, ok := market.Points(p.Market)
		if !ok {
			return model.Ticket{}, fmt.Errorf("%s: %q: %w", op, p.Market, market.ErrUnknownMarket)
		}
		if !market.ValidValue(p.Market, p.Value) {
			return model.Ticket{}, fmt.Errorf("%s: %q for %q: %w", op, p.Value, p.Market, market.ErrInvalidValue)
		}
		selections[i] = model.Selection{
			ID:          s.newID(),
			MatchID:     p.MatchID,
			Market:      p.Market,
			Value:       p.Value,
			PointsValue: points,
		}
	}

	ticket, err := s.store.TicketByRoundAndUser(ctx, roundID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		ticket = model.Ticket{ID: s.newID(), RoundID: roundID, UserID: userID}
		if createErr := s.store.CreateTicket(ctx, ticket); createErr != nil {
			if !errors.Is(createErr, repository.ErrConflict) {
				return model.Ticket{}, fmt.Errorf("%s: %w", op, createErr)
			}
			// Lost a submit race; reuse the winner's ticket.
			ticket, err = s.store.TicketByRoundAndUser(ctx, roundID, userID)
			if err != nil {
				return model.Ticket{}, fmt.Errorf("%s: %w", op, err)
			}
		} else {
			metrics.UpdateTotalTickets(int(s.ticketsCreated.Add(1)))
		}
	} else if err != nil {
		return model.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	for i := range selections {
		selections[i].TicketID = ticket.ID
	}
	if err := s.store.ReplaceSelections(ctx, ticket.ID, selections); err != nil {
		return model.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info(ctx, "ticket submitted",
		logger.String("round_id", roundID),
		logger.String("user_id", userID),
		logger.Int("selections", len(selections)),
	)
	return ticket, nil
}

// Grade settles a round.
func (s *Service) Grade(ctx context.Context, roundID string) (grading.Outcome, error) {
	out, err := s.engine.GradeRound(ctx, roundID)
	if err != nil {
		return grading.Outcome{}, fmt.Errorf("service.Grade: %w", err)
	}
	return out, nil
}

// Board lists a round's tickets with their totals.
func (s *Service) Board(ctx context.Context, roundID string) ([]repository.BoardRow, error) {
	if _, err := s.store.RoundByID(ctx, roundID); err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}
	rows, err := s.store.RoundBoard(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}
	return rows, nil
}

// Leaderboard lists a league's top entries.
func (s *Service) Leaderboard(ctx context.Context, leagueID string, limit int) ([]model.LeaderboardEntry, error) {
	entries, err := s.store.TopLeaderboard(ctx, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("service.Leaderboard: %w", err)
	}
	return entries, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":              s.started,
		"autograde_enabled":    s.autogradeEnabled,
		"require_full_results": s.requireFullResults,
		"rounds_created":       s.roundsCreated.Load(),
		"tickets_created":      s.ticketsCreated.Load(),
	}
}
