// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fantabet/fantabet/internal/adapters/repository"
	"github.com/fantabet/fantabet/internal/domain/market"
	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/internal/grading"
)

// Fixture describes one match of a round being created.
type Fixture struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// Pick is one selection of a ticket submission.
type Pick struct {
	MatchID string        `json:"match_id"`
	Market  market.Market `json:"market"`
	Value   string        `json:"value"`
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreateRound opens a round with its fixtures.
	CreateRound(ctx context.Context, leagueID, name string, fixtures []Fixture) (model.Round, []model.Match, error)

	// Round returns a round and its matches.
	Round(ctx context.Context, id string) (model.Round, []model.Match, error)

	// Rounds lists rounds, optionally restricted to one league.
	Rounds(ctx context.Context, leagueID string) ([]model.Round, error)

	// LockRound closes a round for submissions. Returns false when the
	// round was not open.
	LockRound(ctx context.Context, id string) (bool, error)

	// RecordResult stores a match result. fullTime must be set; halfTime
	// may be nil.
	RecordResult(ctx context.Context, matchID string, halfTime, fullTime *model.Score) error

	// SubmitTicket creates or replaces the user's ticket for a round.
	SubmitTicket(ctx context.Context, roundID, userID string, picks []Pick) (model.Ticket, error)

	// Grade settles a round.
	Grade(ctx context.Context, roundID string) (grading.Outcome, error)

	// Board lists a round's tickets with their totals.
	Board(ctx context.Context, roundID string) ([]repository.BoardRow, error)

	// Leaderboard lists a league's top entries.
	Leaderboard(ctx context.Context, leagueID string, limit int) ([]model.LeaderboardEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	roundsHandler      *RoundsHandler
	resultsHandler     *ResultsHandler
	ticketsHandler     *TicketsHandler
	gradeHandler       *GradeHandler
	boardHandler       *BoardHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBoardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		roundsHandler:      NewRoundsHandler(deps),
		resultsHandler:     NewResultsHandler(deps),
		ticketsHandler:     NewTicketsHandler(deps),
		gradeHandler:       NewGradeHandler(deps),
		boardHandler:       NewBoardHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxBoardLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /rounds", MetricsMiddleware(s.roundsHandler.HandleCreateRound, "rounds"))
	mux.HandleFunc("GET /rounds", MetricsMiddleware(s.roundsHandler.HandleListRounds, "rounds"))
	mux.HandleFunc("GET /rounds/{id}", MetricsMiddleware(s.roundsHandler.HandleGetRound, "rounds"))
	mux.HandleFunc("POST /rounds/{id}/lock", MetricsMiddleware(s.roundsHandler.HandleLockRound, "rounds_lock"))
	mux.HandleFunc("PUT /matches/{id}/result", MetricsMiddleware(s.resultsHandler.HandlePutResult, "results"))
	mux.HandleFunc("POST /rounds/{id}/ticket", MetricsMiddleware(s.ticketsHandler.HandleSubmitTicket, "tickets"))
	mux.HandleFunc("POST /rounds/{id}/grade", MetricsMiddleware(s.gradeHandler.HandleGradeRound, "grade"))
	mux.HandleFunc("GET /rounds/{id}/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

// userIDHeader carries the authenticated caller. An upstream gateway is
// expected to have validated it.
const userIDHeader = "X-User-ID"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// domainStatusCode maps domain sentinels surfacing from the service layer
// to an HTTP status and error code.
func domainStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, grading.ErrRoundNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, model.ErrRoundNotOpen):
		return http.StatusConflict, "round_not_open"
	case errors.Is(err, grading.ErrNoMatches), errors.Is(err, grading.ErrMissingResults):
		return http.StatusConflict, "not_gradeable"
	case errors.Is(err, market.ErrUnknownMarket), errors.Is(err, market.ErrInvalidValue):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeDomainError answers with the generic error envelope for a domain
// sentinel.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	status, code := domainStatusCode(err)
	writeError(w, status, code, Wrap(op, err))
}
