// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fantabet/fantabet/internal/adapters/repository"
	"github.com/fantabet/fantabet/internal/domain/model"
)

// RoundDependencies defines the interface for round lifecycle operations.
type RoundDependencies interface {
	CreateRound(ctx context.Context, leagueID, name string, fixtures []Fixture) (model.Round, []model.Match, error)
	Round(ctx context.Context, id string) (model.Round, []model.Match, error)
	Rounds(ctx context.Context, leagueID string) ([]model.Round, error)
	LockRound(ctx context.Context, id string) (bool, error)
}

// RoundsHandler handles round lifecycle requests.
type RoundsHandler struct {
	deps RoundDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// createRoundRequest mirrors the body of POST /rounds.
type createRoundRequest struct {
	LeagueID string    `json:"league_id"`
	Name     string    `json:"name"`
	Matches  []Fixture `json:"matches"`
}

func (r createRoundRequest) validate() error {
	switch {
	case strings.TrimSpace(r.LeagueID) == "":
		return errors.New("missing league_id")
	case strings.TrimSpace(r.Name) == "":
		return errors.New("missing name")
	case len(r.Matches) == 0:
		return errors.New("missing matches")
	}
	for i, f := range r.Matches {
		if strings.TrimSpace(f.HomeTeam) == "" || strings.TrimSpace(f.AwayTeam) == "" {
			return errors.New("match " + strconv.Itoa(i) + ": missing team name")
		}
	}
	return nil
}

type roundResponse struct {
	Round   model.Round   `json:"round"`
	Matches []model.Match `json:"matches"`
}

// HandleCreateRound handles POST /rounds requests.
func (h *RoundsHandler) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_round"
	var req createRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	round, matches, err := h.deps.CreateRound(r.Context(), req.LeagueID, req.Name, req.Matches)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, roundResponse{Round: round, Matches: matches})
}

// HandleGetRound handles GET /rounds/{id} requests.
func (h *RoundsHandler) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round"
	round, matches, err := h.deps.Round(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, roundResponse{Round: round, Matches: matches})
}

// HandleListRounds handles GET /rounds?league_id=X requests. Without a
// league_id every round comes back.
func (h *RoundsHandler) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_rounds"
	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	rounds, err := h.deps.Rounds(r.Context(), leagueID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if rounds == nil {
		rounds = []model.Round{}
	}
	writeJSON(w, http.StatusOK, rounds)
}

type lockResponse struct {
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
}

// HandleLockRound handles POST /rounds/{id}/lock requests.
func (h *RoundsHandler) HandleLockRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.lock_round"
	id := r.PathValue("id")
	changed, err := h.deps.LockRound(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if !changed {
		// Locking is idempotent from the caller's view: report the round
		// as locked either way, flagging whether this call did it.
		round, _, err := h.deps.Round(r.Context(), id)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		if round.Status == model.RoundGraded {
			writeError(w, http.StatusConflict, "already_graded", NewKind(op, repository.ErrConflict))
			return
		}
	}
	writeJSON(w, http.StatusOK, lockResponse{Status: string(model.RoundLocked), Changed: changed})
}
