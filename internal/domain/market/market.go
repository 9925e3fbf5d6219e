// Package market defines the closed set of betting markets and the pure
// outcome-evaluation rules used by both the submission flow and the
// settlement engine.
package market

// Market identifies a betting proposition type. The set is closed; codes
// arriving from storage that are not in the catalog evaluate to a loss
// rather than an error (fail-closed).
type Market string

// Supported market codes.
const (
	MatchResult       Market = "1X2"     // home win / draw / away win
	OverHalfTime      Market = "O1_5_HT" // over 1.5 goals at half time
	OverUnder         Market = "UO2_5"   // over/under 2.5 goals
	BothTeamsScore    Market = "GGNG"    // both teams score / not both
	DoubleChanceOver  Market = "DC_O1_5" // double chance and over 1.5
	DoubleChanceUnder Market = "DC_U3_5" // double chance and under 3.5
	DoubleChance      Market = "DC"      // two of the three 1X2 outcomes
	Over              Market = "O1_5"    // over 1.5 goals
	Under             Market = "U3_5"    // under 3.5 goals
)

// catalog maps every supported market to its nominal point value. The
// submission flow freezes these onto selections; the grader awards them on
// a win. Both sides must read from here and nowhere else.
var catalog = map[Market]float64{
	MatchResult:       3,
	OverHalfTime:      2.5,
	OverUnder:         2,
	BothTeamsScore:    2,
	DoubleChanceOver:  1.5,
	DoubleChanceUnder: 1.5,
	DoubleChance:      1,
	Over:              1,
	Under:             1,
}

// values lists the accepted chosen values per market. Markets absent from
// this map take no client value (the proposition itself is the pick).
var values = map[Market][]string{
	MatchResult:       {"1", "X", "2"},
	OverHalfTime:      {"Over"},
	OverUnder:         {"Over", "Under"},
	BothTeamsScore:    {"GG", "NG"},
	DoubleChanceOver:  {"1X", "12", "X2"},
	DoubleChanceUnder: {"1X", "12", "X2"},
	DoubleChance:      {"1X", "12", "X2"},
	Over:              {"Over"},
	Under:             {"Under"},
}

// All returns every supported market code.
func All() []Market {
	out := make([]Market, 0, len(catalog))
	for m := range catalog {
		out = append(out, m)
	}
	return out
}

// Points returns the nominal point value for a market and whether the
// market is part of the catalog.
func Points(m Market) (float64, bool) {
	p, ok := catalog[m]
	return p, ok
}

// ValidValue reports whether value is an accepted pick for the market.
func ValidValue(m Market, value string) bool {
	for _, v := range values[m] {
		if v == value {
			return true
		}
	}
	return false
}

// Evaluate applies the market's win rule to a chosen value and the match
// scores (full-time home/away, half-time home/away). It is pure: no I/O,
// no state. Unknown markets and unknown values lose.
func Evaluate(m Market, value string, ftHome, ftAway, htHome, htAway int) bool {
	switch m {
	case MatchResult:
		return winMatchResult(value, ftHome, ftAway)
	case OverHalfTime:
		return over(1.5, htHome, htAway)
	case OverUnder:
		if value == "Over" {
			return over(2.5, ftHome, ftAway)
		}
		return under(2.5, ftHome, ftAway)
	case BothTeamsScore:
		if value == "GG" {
			return bothScored(ftHome, ftAway)
		}
		return !bothScored(ftHome, ftAway)
	case DoubleChanceOver:
		return doubleChance(value, ftHome, ftAway) && over(1.5, ftHome, ftAway)
	case DoubleChanceUnder:
		return doubleChance(value, ftHome, ftAway) && under(3.5, ftHome, ftAway)
	case DoubleChance:
		return doubleChance(value, ftHome, ftAway)
	case Over:
		return over(1.5, ftHome, ftAway)
	case Under:
		return under(3.5, ftHome, ftAway)
	default:
		return false
	}
}

// winMatchResult checks a 1X2 pick against the full-time score.
func winMatchResult(value string, h, a int) bool {
	return (value == "1" && h > a) || (value == "X" && h == a) || (value == "2" && h < a)
}

// over reports whether total goals exceed the line.
func over(line float64, h, a int) bool {
	return float64(h+a) > line
}

// under reports whether total goals stay below the line.
func under(line float64, h, a int) bool {
	return float64(h+a) < line
}

// bothScored reports whether both sides scored at least once.
func bothScored(h, a int) bool {
	return h > 0 && a > 0
}

// doubleChance checks a double-chance pick: "1X" covers home-or-draw,
// "12" covers any decided match, "X2" covers draw-or-away.
func doubleChance(value string, h, a int) bool {
	switch value {
	case "1X":
		return h >= a
	case "12":
		return h != a
	case "X2":
		return h <= a
	default:
		return false
	}
}
