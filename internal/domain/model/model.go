// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/fantabet/fantabet/internal/domain/market"
)

// RoundStatus is the lifecycle state of a round.
type RoundStatus string

// Round lifecycle states. A round transitions open -> locked -> graded;
// graded is terminal for the settlement engine.
const (
	RoundOpen   RoundStatus = "open"
	RoundLocked RoundStatus = "locked"
	RoundGraded RoundStatus = "graded"
)

// Score is a (home, away) goal pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns home + away goals.
func (s Score) Total() int { return s.Home + s.Away }

// Round is a batch of matches graded and scored together.
type Round struct {
	ID       string      `json:"id"`
	LeagueID string      `json:"league_id"`
	Name     string      `json:"name"`
	Status   RoundStatus `json:"status"`
}

// Match is one fixture within a round. Half-time and full-time scores are
// nil until the result-entry workflow records them.
type Match struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	HalfTime *Score `json:"half_time,omitempty"`
	FullTime *Score `json:"full_time,omitempty"`
}

// Selection is one user's chosen value for one match in one market.
// PointsValue is the nominal value frozen at submission time from the
// market catalog.
type Selection struct {
	ID          string        `json:"id"`
	TicketID    string        `json:"ticket_id"`
	MatchID     string        `json:"match_id"`
	Market      market.Market `json:"market"`
	Value       string        `json:"value"`
	PointsValue float64       `json:"points_value"`
}

// SelectionResult is the graded outcome of one selection. AwardedPoints is
// the nominal value on a win, zero otherwise.
type SelectionResult struct {
	SelectionID   string  `json:"selection_id"`
	Win           bool    `json:"is_win"`
	AwardedPoints float64 `json:"awarded_points"`
}

// Ticket is one user's full set of selections for a round. One ticket per
// (round, user) is created lazily by the submission flow.
type Ticket struct {
	ID      string `json:"id"`
	RoundID string `json:"round_id"`
	UserID  string `json:"user_id"`
}

// TicketScore is the per-round total for a ticket, written create-or-replace
// by the aggregator.
type TicketScore struct {
	TicketID    string    `json:"ticket_id"`
	TotalPoints float64   `json:"total_points"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeaderboardEntry is the cumulative league-scoped total for a user. Totals
// only grow; the engine never decrements them.
type LeaderboardEntry struct {
	LeagueID     string    `json:"league_id"`
	UserID       string    `json:"user_id"`
	TotalPoints  float64   `json:"total_points"`
	RoundsPlayed int       `json:"rounds_played"`
	LastUpdate   time.Time `json:"last_update"`
}

// Combine folds a round contribution into the entry: the ticket total is
// added and the rounds-played counter advances by one.
func (e LeaderboardEntry) Combine(ticketTotal float64, now time.Time) LeaderboardEntry {
	e.TotalPoints += ticketTotal
	e.RoundsPlayed++
	e.LastUpdate = now
	return e
}
