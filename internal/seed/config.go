package seed

import "time"

// Config holds configuration for the demo seeding run.
type Config struct {
	BaseURL       string        // Base URL of the service
	LeagueID      string        // League the generated rounds belong to
	Rounds        int           // Number of rounds to create
	MatchesPerRnd int           // Number of matches per round
	Users         int           // Number of users submitting tickets per round
	PicksPerUser  int           // Number of selections on each ticket
	TopN          int           // Number of leaderboard entries to fetch
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for seeding output
	Verbose       bool          // Enable verbose logging
}

// Fixture is a match pairing submitted when creating a round.
type Fixture struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// Pick is a single selection on a ticket.
type Pick struct {
	MatchID string `json:"match_id"`
	Market  string `json:"market"`
	Value   string `json:"value"`
}

// RoundView is the response returned by round creation and lookup.
type RoundView struct {
	Round struct {
		ID       string `json:"id"`
		LeagueID string `json:"league_id"`
		Name     string `json:"name"`
		Status   string `json:"status"`
	} `json:"round"`
	Matches []MatchView `json:"matches"`
}

// MatchView is a match as returned by the service.
type MatchView struct {
	ID       string `json:"id"`
	RoundID  string `json:"round_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// TicketAck is the response from ticket submission.
type TicketAck struct {
	TicketID   string `json:"ticket_id"`
	RoundID    string `json:"round_id"`
	Selections int    `json:"selections"`
}

// ScorePair is a scoreline sent with a match result.
type ScorePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// GradeAck is the response from grading a round.
type GradeAck struct {
	OK         bool   `json:"ok"`
	Already    bool   `json:"already"`
	Status     string `json:"status"`
	Selections int    `json:"selections_graded"`
	Tickets    int    `json:"tickets_scored"`
}

// BoardRow is one ticket on a round board.
type BoardRow struct {
	TicketID    string  `json:"ticket_id"`
	UserID      string  `json:"user_id"`
	TotalPoints float64 `json:"total_points"`
}

// BoardEntry is one row of the league leaderboard.
type BoardEntry struct {
	LeagueID     string  `json:"league_id"`
	UserID       string  `json:"user_id"`
	TotalPoints  float64 `json:"total_points"`
	RoundsPlayed int     `json:"rounds_played"`
}

// Stats holds seeding run statistics.
type Stats struct {
	RoundsCreated      int
	TicketsSubmitted   int
	TicketsFailed      int
	ResultsRecorded    int
	RoundsGraded       int
	SelectionsGraded   int
	TicketsScored      int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
