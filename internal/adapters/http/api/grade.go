// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/fantabet/fantabet/internal/grading"
)

// GradeDependencies defines the interface for triggering grading runs.
type GradeDependencies interface {
	Grade(ctx context.Context, roundID string) (grading.Outcome, error)
}

// GradeHandler handles grading requests.
type GradeHandler struct {
	deps GradeDependencies
}

// NewGradeHandler creates a new grade handler.
func NewGradeHandler(deps GradeDependencies) *GradeHandler {
	return &GradeHandler{deps: deps}
}

type gradeResponse struct {
	OK         bool   `json:"ok"`
	Already    bool   `json:"already,omitempty"`
	Status     string `json:"status"`
	Selections int    `json:"selections_graded"`
	Tickets    int    `json:"tickets_scored"`
}

type gradeErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleGradeRound handles POST /rounds/{id}/grade requests. Grading is
// idempotent: re-triggering a graded round reports already without changing
// any stored totals. Failures answer {ok:false, error} instead of the
// generic error envelope.
func (h *GradeHandler) HandleGradeRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.grade_round"
	out, err := h.deps.Grade(r.Context(), r.PathValue("id"))
	if err != nil {
		status, code := domainStatusCode(err)
		writeJSON(w, status, gradeErrorResponse{
			OK:    false,
			Error: Wrap(op, err).Error(),
			Code:  code,
		})
		return
	}
	status := "graded"
	if out.Already {
		status = "already_graded"
	}
	writeJSON(w, http.StatusOK, gradeResponse{
		OK:         true,
		Already:    out.Already,
		Status:     status,
		Selections: out.Selections,
		Tickets:    out.Tickets,
	})
}
