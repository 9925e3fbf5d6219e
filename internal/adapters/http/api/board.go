// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/fantabet/fantabet/internal/adapters/repository"
)

// BoardDependencies defines the interface for round board queries.
type BoardDependencies interface {
	Board(ctx context.Context, roundID string) ([]repository.BoardRow, error)
}

// BoardHandler handles round board requests.
type BoardHandler struct {
	deps BoardDependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleGetBoard handles GET /rounds/{id}/board requests.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_board"
	rows, err := h.deps.Board(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if rows == nil {
		rows = []repository.BoardRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
