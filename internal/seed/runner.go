package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/fantabet/fantabet/pkg/logger"
)

// Run executes the complete seeding flow: create rounds, submit tickets,
// lock, record results, grade, then read the board and leaderboard back.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting fantabet seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.String("leagueID", config.LeagueID),
		logger.Int("rounds", config.Rounds),
		logger.Int("matchesPerRound", config.MatchesPerRnd),
		logger.Int("users", config.Users),
		logger.Int("picksPerUser", config.PicksPerUser),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Pre-allocate user identities shared across rounds so the
	// leaderboard accumulates per user instead of fragmenting.
	users := generateUserIDs(ctx, config.Users)

	// Step 3: Run every round through its full lifecycle.
	var lastBoard []BoardRow
	for i := 0; i < config.Rounds; i++ {
		board, err := runRound(ctx, client, config, i, users, stats)
		if err != nil {
			return fmt.Errorf("round %d failed: %w", i+1, err)
		}
		lastBoard = board
	}

	// Step 4: Get leaderboard
	leaderboard, err := fetchLeaderboard(ctx, client, config)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(leaderboard)

	// Step 5: Verify results
	if err := verifyResults(ctx, config, lastBoard, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	return nil
}

// runRound drives one round from creation through grading and returns its
// settled board.
func runRound(ctx context.Context, client *HTTPClient, config *Config, index int, users []string, stats *Stats) ([]BoardRow, error) {
	fixtures := generateFixtures(config.MatchesPerRnd)
	round, err := createRound(ctx, client, config, roundName(index), fixtures)
	if err != nil {
		return nil, err
	}
	stats.RoundsCreated++
	logger.Get().Info(ctx, "round created",
		logger.String("roundID", round.Round.ID),
		logger.String("name", round.Round.Name),
		logger.Int("matches", len(round.Matches)))

	submitTickets(ctx, client, config, round, users, stats)

	if err := lockRound(ctx, client, round.Round.ID); err != nil {
		return nil, err
	}

	if err := recordResults(ctx, client, round, stats); err != nil {
		return nil, err
	}

	ack, err := gradeRound(ctx, client, round.Round.ID)
	if err != nil {
		return nil, err
	}
	stats.RoundsGraded++
	stats.SelectionsGraded += ack.Selections
	stats.TicketsScored += ack.Tickets
	logger.Get().Info(ctx, "round graded",
		logger.String("roundID", round.Round.ID),
		logger.String("status", ack.Status),
		logger.Int("selections", ack.Selections),
		logger.Int("tickets", ack.Tickets))

	return fetchBoard(ctx, client, round.Round.ID)
}

// displayFinalStats logs a summary of the seeding run.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "seeding run completed",
		logger.Int("roundsCreated", stats.RoundsCreated),
		logger.Int("ticketsSubmitted", stats.TicketsSubmitted),
		logger.Int("ticketsFailed", stats.TicketsFailed),
		logger.Int("resultsRecorded", stats.ResultsRecorded),
		logger.Int("roundsGraded", stats.RoundsGraded),
		logger.Int("selectionsGraded", stats.SelectionsGraded),
		logger.Int("ticketsScored", stats.TicketsScored),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()))
}
