package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/fantabet/fantabet/pkg/logger"
)

// Constants for random score generation.
const (
	maxFullTimeGoals = 5
	goallessWeight   = 8 // one in goallessWeight results is forced goalless
)

// teamPool is the set of club names the generator pairs into fixtures.
var teamPool = []string{
	"Rapid Lions", "Harbor City", "Northfield United", "Athletic Crest",
	"Riverside Rovers", "Old Quarter", "Meridian FC", "Sporting Vale",
	"Ironbridge Town", "Coastal Albion", "Summit Rangers", "Lakeshore Athletic",
	"Western Star", "Crown Heights", "Portside Wanderers", "Valley Forge FC",
}

// pickOption pairs a market code with the values a client may choose for it.
type pickOption struct {
	market string
	values []string
}

// pickOptions mirrors the market catalog accepted by the service.
var pickOptions = []pickOption{
	{"1X2", []string{"1", "X", "2"}},
	{"O1_5_HT", []string{"Over"}},
	{"UO2_5", []string{"Over", "Under"}},
	{"GGNG", []string{"GG", "NG"}},
	{"DC_O1_5", []string{"1X", "12", "X2"}},
	{"DC_U3_5", []string{"1X", "12", "X2"}},
	{"DC", []string{"1X", "12", "X2"}},
	{"O1_5", []string{"Over"}},
	{"U3_5", []string{"Under"}},
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateFixtures pairs teams from the pool into the requested number of
// fixtures without repeating a team within the round.
func generateFixtures(count int) []Fixture {
	if count*2 > len(teamPool) {
		count = len(teamPool) / 2
	}

	// Shuffle a copy of the pool and pair adjacent entries.
	shuffled := make([]string, len(teamPool))
	copy(shuffled, teamPool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := randomInt(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	fixtures := make([]Fixture, count)
	for i := 0; i < count; i++ {
		fixtures[i] = Fixture{
			HomeTeam: shuffled[i*2],
			AwayTeam: shuffled[i*2+1],
		}
	}
	return fixtures
}

// generatePicks builds the requested number of selections across the given
// matches, at most one pick per match.
func generatePicks(matches []MatchView, count int) []Pick {
	if count > len(matches) {
		count = len(matches)
	}

	picks := make([]Pick, count)
	for i := 0; i < count; i++ {
		opt := pickOptions[randomInt(len(pickOptions))]
		picks[i] = Pick{
			MatchID: matches[i].ID,
			Market:  opt.market,
			Value:   opt.values[randomInt(len(opt.values))],
		}
	}
	return picks
}

// generateResult produces a random scoreline with a half-time score that
// never exceeds the full-time score. A slice of results come out goalless so
// under and no-goal markets get exercised.
func generateResult() (half, full ScorePair) {
	if randomInt(goallessWeight) == 0 {
		return ScorePair{}, ScorePair{}
	}

	full = ScorePair{
		Home: randomInt(maxFullTimeGoals + 1),
		Away: randomInt(maxFullTimeGoals + 1),
	}
	half = ScorePair{
		Home: randomInt(full.Home + 1),
		Away: randomInt(full.Away + 1),
	}
	return half, full
}

// generateUserIDs pre-allocates unique user identifiers for the run.
func generateUserIDs(ctx context.Context, count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = "user-" + uuid.New().String()
	}
	logger.Get().Debug(ctx, "generated user ids", logger.Int("count", len(ids)))
	return ids
}

// roundName labels the nth generated round.
func roundName(n int) string {
	return "Matchday " + strconv.Itoa(n+1)
}
