package seed

import (
	"context"
	"fmt"

	"github.com/fantabet/fantabet/pkg/logger"
)

// verifyResults checks the settled board and the league leaderboard for
// internal consistency after the seeding run.
func verifyResults(ctx context.Context, config *Config, board []BoardRow, leaderboard []BoardEntry, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results")

	if stats.TicketsSubmitted > 0 && len(board) == 0 {
		return fmt.Errorf("tickets were submitted but the last round board is empty")
	}

	if err := verifyBoardOrdering(board); err != nil {
		return fmt.Errorf("round board check failed: %w", err)
	}

	if err := verifyLeaderboard(config, leaderboard, stats); err != nil {
		return fmt.Errorf("leaderboard check failed: %w", err)
	}

	displayTopEntries(ctx, board, leaderboard, config.Verbose)

	logger.Get().Info(ctx, "result verification completed")
	return nil
}

// verifyBoardOrdering checks the board is sorted by points descending.
func verifyBoardOrdering(board []BoardRow) error {
	for i := 1; i < len(board); i++ {
		if board[i].TotalPoints > board[i-1].TotalPoints {
			return fmt.Errorf("board not sorted: row %d has more points than row %d", i, i-1)
		}
	}
	return nil
}

// verifyLeaderboard checks leaderboard ordering and accumulation bounds.
func verifyLeaderboard(config *Config, leaderboard []BoardEntry, stats *Stats) error {
	if stats.RoundsGraded > 0 && stats.TicketsScored > 0 && len(leaderboard) == 0 {
		return fmt.Errorf("rounds were graded but the leaderboard is empty")
	}

	for i, entry := range leaderboard {
		if entry.LeagueID != config.LeagueID {
			return fmt.Errorf("entry %d belongs to league %q, expected %q", i, entry.LeagueID, config.LeagueID)
		}
		if entry.RoundsPlayed > stats.RoundsGraded {
			return fmt.Errorf("entry %d played %d rounds but only %d were graded",
				i, entry.RoundsPlayed, stats.RoundsGraded)
		}
		if i > 0 && entry.TotalPoints > leaderboard[i-1].TotalPoints {
			return fmt.Errorf("leaderboard not sorted: entry %d has more points than entry %d", i, i-1)
		}
	}
	return nil
}

// displayTopEntries logs the top of the last board and the leaderboard.
func displayTopEntries(ctx context.Context, board []BoardRow, leaderboard []BoardEntry, verbose bool) {
	topN := 10
	if len(board) < topN {
		topN = len(board)
	}
	for i := 0; i < topN; i++ {
		row := board[i]
		logger.Get().Info(ctx, "board row",
			logger.Int("rank", i+1),
			logger.String("userID", row.UserID),
			logger.Float64("points", row.TotalPoints))
	}

	topN = 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		logger.Get().Info(ctx, "leaderboard entry",
			logger.Int("rank", i+1),
			logger.String("userID", entry.UserID),
			logger.Float64("points", entry.TotalPoints),
			logger.Int("roundsPlayed", entry.RoundsPlayed))
	}

	if verbose && len(leaderboard) > 0 {
		sum := 0.0
		for _, entry := range leaderboard {
			sum += entry.TotalPoints
		}
		logger.Get().Info(ctx, "leaderboard statistics",
			logger.Float64("average", sum/float64(len(leaderboard))),
			logger.Float64("maximum", leaderboard[0].TotalPoints),
			logger.Float64("minimum", leaderboard[len(leaderboard)-1].TotalPoints))
	}
}
