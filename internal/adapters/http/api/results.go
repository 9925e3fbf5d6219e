// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fantabet/fantabet/internal/domain/model"
)

// ResultDependencies defines the interface for recording match results.
type ResultDependencies interface {
	RecordResult(ctx context.Context, matchID string, halfTime, fullTime *model.Score) error
}

// ResultsHandler handles match result requests.
type ResultsHandler struct {
	deps ResultDependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultDependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// scoreBody is a score pair in a result payload.
type scoreBody struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// resultRequest mirrors the body of PUT /matches/{id}/result. half_time
// may be omitted when only the full-time score is known.
type resultRequest struct {
	HalfTime *scoreBody `json:"half_time"`
	FullTime *scoreBody `json:"full_time"`
}

func (r resultRequest) validate() error {
	if r.FullTime == nil {
		return errors.New("missing full_time")
	}
	for _, sc := range []*scoreBody{r.HalfTime, r.FullTime} {
		if sc != nil && (sc.Home < 0 || sc.Away < 0) {
			return errors.New("negative score")
		}
	}
	return nil
}

func (sc *scoreBody) toScore() *model.Score {
	if sc == nil {
		return nil
	}
	return &model.Score{Home: sc.Home, Away: sc.Away}
}

type resultResponse struct {
	Status string `json:"status"`
}

// HandlePutResult handles PUT /matches/{id}/result requests.
func (h *ResultsHandler) HandlePutResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_result"
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.RecordResult(r.Context(), r.PathValue("id"), req.HalfTime.toScore(), req.FullTime.toScore()); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Status: "recorded"})
}
