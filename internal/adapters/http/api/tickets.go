// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/pkg/metrics"
)

// TicketDependencies defines the interface for ticket submissions.
type TicketDependencies interface {
	SubmitTicket(ctx context.Context, roundID, userID string, picks []Pick) (model.Ticket, error)
}

// TicketsHandler handles ticket submission requests.
type TicketsHandler struct {
	deps TicketDependencies
}

// NewTicketsHandler creates a new tickets handler.
func NewTicketsHandler(deps TicketDependencies) *TicketsHandler {
	return &TicketsHandler{deps: deps}
}

// ticketRequest mirrors the body of POST /rounds/{id}/ticket.
type ticketRequest struct {
	Selections []Pick `json:"selections"`
}

func (t ticketRequest) validate() error {
	if len(t.Selections) == 0 {
		return errors.New("missing selections")
	}
	for _, p := range t.Selections {
		switch {
		case strings.TrimSpace(p.MatchID) == "":
			return errors.New("selection missing match_id")
		case strings.TrimSpace(string(p.Market)) == "":
			return errors.New("selection missing market")
		case strings.TrimSpace(p.Value) == "":
			return errors.New("selection missing value")
		}
	}
	return nil
}

type ticketResponse struct {
	TicketID   string `json:"ticket_id"`
	RoundID    string `json:"round_id"`
	Selections int    `json:"selections"`
}

// HandleSubmitTicket handles POST /rounds/{id}/ticket requests. The caller
// identity comes from the X-User-ID header; resubmitting replaces the
// previous selections wholesale.
func (h *TicketsHandler) HandleSubmitTicket(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_ticket"
	userID := strings.TrimSpace(r.Header.Get(userIDHeader))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
		return
	}
	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordSubmissionError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordSubmissionError()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ticket, err := h.deps.SubmitTicket(r.Context(), r.PathValue("id"), userID, req.Selections)
	if err != nil {
		metrics.RecordSubmissionError()
		writeDomainError(w, op, err)
		return
	}
	metrics.RecordTicketSubmitted()
	writeJSON(w, http.StatusCreated, ticketResponse{
		TicketID:   ticket.ID,
		RoundID:    ticket.RoundID,
		Selections: len(req.Selections),
	})
}
