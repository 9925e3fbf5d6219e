package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/fantabet/fantabet/internal/seed"
)

// Default configuration constants.
const (
	defaultRounds     = 3
	defaultMatches    = 4
	defaultUsers      = 25
	defaultPicks      = 3
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		leagueID = flag.String("league", "demo-league", "League id the generated rounds belong to")
		rounds   = flag.Int("rounds", defaultRounds, "Number of rounds to create and grade")
		matches  = flag.Int("matches", defaultMatches, "Number of matches per round")
		users    = flag.Int("users", defaultUsers, "Number of users submitting tickets per round")
		picks    = flag.Int("picks", defaultPicks, "Number of selections on each ticket")
		topN     = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for seeding output (default: seed_log_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	// Setup logging
	if err := seed.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create seeding configuration
	config := &seed.Config{
		BaseURL:       *baseURL,
		LeagueID:      *leagueID,
		Rounds:        *rounds,
		MatchesPerRnd: *matches,
		Users:         *users,
		PicksPerUser:  *picks,
		TopN:          *topN,
		Workers:       *workers,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the seeding flow
	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
