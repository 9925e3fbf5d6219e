package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fantabet/fantabet/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do performs a request with an optional JSON body and an optional user
// identity header, decoding the JSON response into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path, userID string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	return resp.StatusCode, nil
}

// checkServiceHealth verifies the service is reachable before seeding.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	if status != StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// createRound creates a round with the given fixtures and returns the
// service's view of it.
func createRound(ctx context.Context, client *HTTPClient, config *Config, name string, fixtures []Fixture) (*RoundView, error) {
	payload := map[string]interface{}{
		"league_id": config.LeagueID,
		"name":      name,
		"matches":   fixtures,
	}

	var view RoundView
	if _, err := client.do(ctx, http.MethodPost, "/rounds", "", payload, &view); err != nil {
		return nil, fmt.Errorf("failed to create round %q: %w", name, err)
	}
	return &view, nil
}

// submitTickets submits one ticket per user for the round, fanning the
// submissions out over a worker pool.
func submitTickets(ctx context.Context, client *HTTPClient, config *Config, round *RoundView, users []string, stats *Stats) {
	type submission struct {
		userID string
		picks  []Pick
	}

	var (
		submitted int64
		failed    int64
	)

	jobs := make(chan submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				body := map[string]interface{}{"selections": job.picks}
				var ack TicketAck
				_, err := client.do(ctx, http.MethodPost, "/rounds/"+round.Round.ID+"/ticket", job.userID, body, &ack)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "ticket submission failed",
						logger.String("roundID", round.Round.ID),
						logger.String("userID", job.userID),
						logger.Error(err))
					continue
				}
				atomic.AddInt64(&submitted, 1)
				if config.Verbose {
					logger.Get().Debug(ctx, "ticket submitted",
						logger.String("ticketID", ack.TicketID),
						logger.Int("selections", ack.Selections))
				}
			}
		}()
	}

	for _, userID := range users {
		picks := generatePicks(round.Matches, config.PicksPerUser)
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- submission{userID: userID, picks: picks}:
		}
	}
	close(jobs)
	wg.Wait()

	stats.TicketsSubmitted += int(atomic.LoadInt64(&submitted))
	stats.TicketsFailed += int(atomic.LoadInt64(&failed))
}

// lockRound closes the round for further submissions.
func lockRound(ctx context.Context, client *HTTPClient, roundID string) error {
	if _, err := client.do(ctx, http.MethodPost, "/rounds/"+roundID+"/lock", "", nil, nil); err != nil {
		return fmt.Errorf("failed to lock round %s: %w", roundID, err)
	}
	return nil
}

// recordResults posts a random scoreline for every match in the round.
func recordResults(ctx context.Context, client *HTTPClient, round *RoundView, stats *Stats) error {
	for _, match := range round.Matches {
		half, full := generateResult()
		body := map[string]interface{}{
			"half_time": half,
			"full_time": full,
		}
		if _, err := client.do(ctx, http.MethodPut, "/matches/"+match.ID+"/result", "", body, nil); err != nil {
			return fmt.Errorf("failed to record result for match %s: %w", match.ID, err)
		}
		stats.ResultsRecorded++
	}
	return nil
}

// gradeRound settles the round and returns the grading acknowledgement.
func gradeRound(ctx context.Context, client *HTTPClient, roundID string) (*GradeAck, error) {
	var ack GradeAck
	if _, err := client.do(ctx, http.MethodPost, "/rounds/"+roundID+"/grade", "", nil, &ack); err != nil {
		return nil, fmt.Errorf("failed to grade round %s: %w", roundID, err)
	}
	return &ack, nil
}

// fetchBoard retrieves the per-round board.
func fetchBoard(ctx context.Context, client *HTTPClient, roundID string) ([]BoardRow, error) {
	var rows []BoardRow
	if _, err := client.do(ctx, http.MethodGet, "/rounds/"+roundID+"/board", "", nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch board for round %s: %w", roundID, err)
	}
	return rows, nil
}

// fetchLeaderboard retrieves the top entries of the league leaderboard.
func fetchLeaderboard(ctx context.Context, client *HTTPClient, config *Config) ([]BoardEntry, error) {
	path := fmt.Sprintf("/leaderboard?league_id=%s&limit=%d", config.LeagueID, config.TopN)
	var entries []BoardEntry
	if _, err := client.do(ctx, http.MethodGet, path, "", nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return entries, nil
}
