package grading_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fantabet/fantabet/internal/domain/market"
	"github.com/fantabet/fantabet/internal/domain/model"
	"github.com/fantabet/fantabet/internal/grading"
	"github.com/fantabet/fantabet/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var errFakeNotFound = errors.New("fake: not found")

// fakeStore is an in-memory grading.Store with per-method failure
// injection for pipeline abort tests.
type fakeStore struct {
	rounds     map[string]model.Round
	matches    map[string][]model.Match
	selections []model.Selection
	results    map[string]model.SelectionResult
	tickets    map[string][]model.Ticket
	scores     map[string]model.TicketScore
	board      map[string]model.LeaderboardEntry

	failOn  map[string]error
	casLost bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rounds:  make(map[string]model.Round),
		matches: make(map[string][]model.Match),
		results: make(map[string]model.SelectionResult),
		tickets: make(map[string][]model.Ticket),
		scores:  make(map[string]model.TicketScore),
		board:   make(map[string]model.LeaderboardEntry),
		failOn:  make(map[string]error),
	}
}

func (f *fakeStore) fail(method string) error {
	if err, ok := f.failOn[method]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) RoundByID(_ context.Context, id string) (model.Round, error) {
	if err := f.fail("RoundByID"); err != nil {
		return model.Round{}, err
	}
	r, ok := f.rounds[id]
	if !ok {
		return model.Round{}, fmt.Errorf("round %s: %w", id, errFakeNotFound)
	}
	return r, nil
}

func (f *fakeStore) MatchesByRound(_ context.Context, roundID string) ([]model.Match, error) {
	if err := f.fail("MatchesByRound"); err != nil {
		return nil, err
	}
	return f.matches[roundID], nil
}

func (f *fakeStore) SelectionsByMatches(_ context.Context, matchIDs []string) ([]model.Selection, error) {
	if err := f.fail("SelectionsByMatches"); err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		ids[id] = true
	}
	var out []model.Selection
	for _, sel := range f.selections {
		if ids[sel.MatchID] {
			out = append(out, sel)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceSelectionResults(_ context.Context, results []model.SelectionResult) error {
	if err := f.fail("ReplaceSelectionResults"); err != nil {
		return err
	}
	for _, r := range results {
		f.results[r.SelectionID] = r
	}
	return nil
}

func (f *fakeStore) ResultsBySelections(_ context.Context, selectionIDs []string) ([]model.SelectionResult, error) {
	if err := f.fail("ResultsBySelections"); err != nil {
		return nil, err
	}
	var out []model.SelectionResult
	for _, id := range selectionIDs {
		if r, ok := f.results[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) TicketsByRound(_ context.Context, roundID string) ([]model.Ticket, error) {
	if err := f.fail("TicketsByRound"); err != nil {
		return nil, err
	}
	return f.tickets[roundID], nil
}

func (f *fakeStore) UpsertTicketScore(_ context.Context, s model.TicketScore) error {
	if err := f.fail("UpsertTicketScore"); err != nil {
		return err
	}
	f.scores[s.TicketID] = s
	return nil
}

func (f *fakeStore) TicketScoreByTicket(_ context.Context, ticketID string) (model.TicketScore, error) {
	if err := f.fail("TicketScoreByTicket"); err != nil {
		return model.TicketScore{}, err
	}
	s, ok := f.scores[ticketID]
	if !ok {
		return model.TicketScore{}, fmt.Errorf("score %s: %w", ticketID, errFakeNotFound)
	}
	return s, nil
}

func (f *fakeStore) LeaderboardEntry(_ context.Context, leagueID, userID string) (model.LeaderboardEntry, error) {
	if err := f.fail("LeaderboardEntry"); err != nil {
		return model.LeaderboardEntry{}, err
	}
	e, ok := f.board[leagueID+"|"+userID]
	if !ok {
		return model.LeaderboardEntry{}, fmt.Errorf("entry: %w", errFakeNotFound)
	}
	return e, nil
}

func (f *fakeStore) UpsertLeaderboardEntry(_ context.Context, e model.LeaderboardEntry) error {
	if err := f.fail("UpsertLeaderboardEntry"); err != nil {
		return err
	}
	f.board[e.LeagueID+"|"+e.UserID] = e
	return nil
}

func (f *fakeStore) MarkRoundGraded(_ context.Context, id string) (bool, error) {
	if err := f.fail("MarkRoundGraded"); err != nil {
		return false, err
	}
	if f.casLost {
		return false, nil
	}
	r, ok := f.rounds[id]
	if !ok || r.Status == model.RoundGraded {
		return false, nil
	}
	r.Status = model.RoundGraded
	f.rounds[id] = r
	return true, nil
}

func newEngine(store *fakeStore, opts ...grading.Option) *grading.Engine {
	return grading.New(store, grading.IsNotFoundFunc(errFakeNotFound), opts...)
}

func score(h, a int) *model.Score { return &model.Score{Home: h, Away: a} }

// seedRound loads the fake with a locked one-match round and one ticket
// holding the given selections.
func seedRound(f *fakeStore, roundID string, ft, ht *model.Score, sels ...model.Selection) {
	f.rounds[roundID] = model.Round{ID: roundID, LeagueID: "league-1", Name: roundID, Status: model.RoundLocked}
	f.matches[roundID] = []model.Match{{
		ID: roundID + "-m1", RoundID: roundID,
		HomeTeam: "Home", AwayTeam: "Away",
		HalfTime: ht, FullTime: ft,
	}}
	f.tickets[roundID] = []model.Ticket{{ID: roundID + "-t1", RoundID: roundID, UserID: "user-a"}}
	for i := range sels {
		sels[i].TicketID = roundID + "-t1"
		sels[i].MatchID = roundID + "-m1"
		f.selections = append(f.selections, sels[i])
	}
}

func TestGradeRound_Scenarios(t *testing.T) {
	Convey("Given a locked round with a 2-1 full-time result", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(2, 1), score(1, 0),
			model.Selection{ID: "s1", Market: market.MatchResult, Value: "1", PointsValue: 3},
			model.Selection{ID: "s2", Market: market.OverUnder, Value: "Over", PointsValue: 2},
		)
		eng := newEngine(f)

		Convey("When the round is graded", func() {
			out, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then both selections win their nominal points", func() {
				So(err, ShouldBeNil)
				So(out.Already, ShouldBeFalse)
				So(out.Selections, ShouldEqual, 2)
				So(f.results["s1"].Win, ShouldBeTrue)
				So(f.results["s1"].AwardedPoints, ShouldEqual, 3)
				So(f.results["s2"].Win, ShouldBeTrue)
				So(f.results["s2"].AwardedPoints, ShouldEqual, 2)
			})

			Convey("And the ticket total is the sum of awarded points", func() {
				So(err, ShouldBeNil)
				So(f.scores["r1-t1"].TotalPoints, ShouldEqual, 5)
			})

			Convey("And the round ends up graded", func() {
				So(err, ShouldBeNil)
				So(f.rounds["r1"].Status, ShouldEqual, model.RoundGraded)
			})
		})
	})

	Convey("Given a locked round that ended goalless", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(0, 0), score(0, 0),
			model.Selection{ID: "s1", Market: market.BothTeamsScore, Value: "GG", PointsValue: 2},
			model.Selection{ID: "s2", Market: market.BothTeamsScore, Value: "NG", PointsValue: 2},
			model.Selection{ID: "s3", Market: market.Over, Value: "Over", PointsValue: 1},
			model.Selection{ID: "s4", Market: market.Under, Value: "Under", PointsValue: 1},
		)
		eng := newEngine(f)

		Convey("When the round is graded", func() {
			_, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then GG loses, NG wins, over loses and under wins", func() {
				So(err, ShouldBeNil)
				So(f.results["s1"].AwardedPoints, ShouldEqual, 0)
				So(f.results["s2"].AwardedPoints, ShouldEqual, 2)
				So(f.results["s3"].AwardedPoints, ShouldEqual, 0)
				So(f.results["s4"].AwardedPoints, ShouldEqual, 1)
				So(f.scores["r1-t1"].TotalPoints, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a round with two tickets for users A and B", t, func() {
		f := newFakeStore()
		f.rounds["r1"] = model.Round{ID: "r1", LeagueID: "L", Status: model.RoundLocked}
		f.matches["r1"] = []model.Match{{ID: "m1", RoundID: "r1", FullTime: score(2, 1)}}
		f.tickets["r1"] = []model.Ticket{
			{ID: "ta", RoundID: "r1", UserID: "A"},
			{ID: "tb", RoundID: "r1", UserID: "B"},
		}
		f.selections = []model.Selection{
			{ID: "s1", TicketID: "ta", MatchID: "m1", Market: market.MatchResult, Value: "1", PointsValue: 3},
			{ID: "s2", TicketID: "ta", MatchID: "m1", Market: market.OverUnder, Value: "Over", PointsValue: 2},
			{ID: "s3", TicketID: "tb", MatchID: "m1", Market: market.MatchResult, Value: "2", PointsValue: 3},
		}
		eng := newEngine(f)

		Convey("When the round is graded", func() {
			_, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then each user gets one leaderboard entry with one round played", func() {
				So(err, ShouldBeNil)
				So(f.board["L|A"].TotalPoints, ShouldEqual, 5)
				So(f.board["L|A"].RoundsPlayed, ShouldEqual, 1)
				So(f.board["L|B"].TotalPoints, ShouldEqual, 0)
				So(f.board["L|B"].RoundsPlayed, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a ticket without selections", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(1, 1), nil)
		eng := newEngine(f)

		Convey("When the round is graded", func() {
			out, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then the ticket gets an explicit zero score", func() {
				So(err, ShouldBeNil)
				So(out.Tickets, ShouldEqual, 1)
				sc, ok := f.scores["r1-t1"]
				So(ok, ShouldBeTrue)
				So(sc.TotalPoints, ShouldEqual, 0)
			})
		})
	})
}

func TestGradeRound_Guard(t *testing.T) {
	Convey("Given an already graded round", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(2, 1), nil,
			model.Selection{ID: "s1", Market: market.MatchResult, Value: "1", PointsValue: 3})
		r := f.rounds["r1"]
		r.Status = model.RoundGraded
		f.rounds["r1"] = r
		f.board["league-1|user-a"] = model.LeaderboardEntry{LeagueID: "league-1", UserID: "user-a", TotalPoints: 7, RoundsPlayed: 2}
		eng := newEngine(f)

		Convey("When grading is invoked again", func() {
			out, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then it reports already graded and changes nothing", func() {
				So(err, ShouldBeNil)
				So(out.Already, ShouldBeTrue)
				So(f.results, ShouldBeEmpty)
				So(f.scores, ShouldBeEmpty)
				So(f.board["league-1|user-a"].TotalPoints, ShouldEqual, 7)
				So(f.board["league-1|user-a"].RoundsPlayed, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a concurrent grader that wins the closing update", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(1, 0), nil,
			model.Selection{ID: "s1", Market: market.MatchResult, Value: "1", PointsValue: 3})
		// The round reads as locked but the conditional status update
		// reports no change, as if another grader flipped it in between.
		f.casLost = true
		eng := newEngine(f)

		Convey("When grading runs", func() {
			out, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then it reports already graded instead of claiming the run", func() {
				So(err, ShouldBeNil)
				So(out.Already, ShouldBeTrue)
			})
		})
	})

	Convey("Given an unknown round id", t, func() {
		f := newFakeStore()
		eng := newEngine(f)

		Convey("When grading is invoked", func() {
			_, err := eng.GradeRound(context.Background(), "missing")

			Convey("Then it fails with the round-not-found kind", func() {
				So(errors.Is(err, grading.ErrRoundNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a round without matches", t, func() {
		f := newFakeStore()
		f.rounds["r1"] = model.Round{ID: "r1", LeagueID: "L", Status: model.RoundLocked}
		eng := newEngine(f)

		Convey("When grading is invoked", func() {
			_, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then it fails with the no-matches kind", func() {
				So(errors.Is(err, grading.ErrNoMatches), ShouldBeTrue)
			})
		})
	})

	Convey("Given strict result checking and a match without a result", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", nil, nil,
			model.Selection{ID: "s1", Market: market.Under, Value: "Under", PointsValue: 1})
		eng := newEngine(f, grading.WithRequireFullResults(true))

		Convey("When grading is invoked", func() {
			_, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then it refuses to grade", func() {
				So(errors.Is(err, grading.ErrMissingResults), ShouldBeTrue)
			})
		})

		Convey("When strict checking is off", func() {
			eng = newEngine(f)
			_, err := eng.GradeRound(context.Background(), "r1")

			Convey("Then the match grades as goalless", func() {
				So(err, ShouldBeNil)
				So(f.results["s1"].Win, ShouldBeTrue)
			})
		})
	})
}

func TestGradeRound_RetryAfterFailure(t *testing.T) {
	Convey("Given a round whose ticket score write fails mid-pipeline", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(2, 1), nil,
			model.Selection{ID: "s1", Market: market.MatchResult, Value: "1", PointsValue: 3},
			model.Selection{ID: "s2", Market: market.OverUnder, Value: "Under", PointsValue: 2},
		)
		fixed := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
		eng := newEngine(f, grading.WithClock(func() time.Time { return fixed }))
		f.failOn["UpsertTicketScore"] = errors.New("disk full")

		Convey("When grading fails and is retried", func() {
			_, err := eng.GradeRound(context.Background(), "r1")
			So(err, ShouldNotBeNil)

			Convey("Then the round status is unchanged and nothing reached the leaderboard", func() {
				So(f.rounds["r1"].Status, ShouldEqual, model.RoundLocked)
				So(f.board, ShouldBeEmpty)
			})

			Convey("And the retry reproduces the rows a clean run would write", func() {
				delete(f.failOn, "UpsertTicketScore")
				out, err := eng.GradeRound(context.Background(), "r1")
				So(err, ShouldBeNil)
				So(out.Already, ShouldBeFalse)

				// Identical to a single clean invocation.
				So(f.results["s1"], ShouldResemble, model.SelectionResult{SelectionID: "s1", Win: true, AwardedPoints: 3})
				So(f.results["s2"], ShouldResemble, model.SelectionResult{SelectionID: "s2", Win: false, AwardedPoints: 0})
				So(f.scores["r1-t1"], ShouldResemble, model.TicketScore{TicketID: "r1-t1", TotalPoints: 3, UpdatedAt: fixed})
				So(f.board["league-1|user-a"].RoundsPlayed, ShouldEqual, 1)
				So(f.rounds["r1"].Status, ShouldEqual, model.RoundGraded)
			})
		})
	})
}

func TestGradeRound_Accumulation(t *testing.T) {
	Convey("Given two rounds in the same league for the same user", t, func() {
		f := newFakeStore()
		seedRound(f, "r1", score(2, 1), nil,
			model.Selection{ID: "s1", Market: market.MatchResult, Value: "1", PointsValue: 3})
		seedRound(f, "r2", score(0, 0), nil,
			model.Selection{ID: "s2", Market: market.BothTeamsScore, Value: "NG", PointsValue: 2})
		eng := newEngine(f)

		Convey("When both rounds are graded", func() {
			_, err1 := eng.GradeRound(context.Background(), "r1")
			_, err2 := eng.GradeRound(context.Background(), "r2")

			Convey("Then the leaderboard holds the sum over both rounds", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				entry := f.board["league-1|user-a"]
				So(entry.TotalPoints, ShouldEqual, 5)
				So(entry.RoundsPlayed, ShouldEqual, 2)
			})
		})
	})
}
