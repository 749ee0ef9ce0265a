// Package stats owns the durable per-user numbers: aggregate points,
// win rate, streaks, and the capped game-history log. The ledger is
// pure; persistence lives behind the StatsStore boundary.
package stats

import (
	"errors"
	"math"
	"time"

	"wordrush/internal/game"
)

// HistoryCap bounds the per-user game history; older entries are purged.
const HistoryCap = 20

// ErrAlreadyPlayedToday signals that today's daily game was already
// used up. It is an expected condition, not a failure.
var ErrAlreadyPlayedToday = errors.New("daily game already played today")

// UserAggregate is the durable per-user stats record.
type UserAggregate struct {
	Points          int        `json:"points"`
	DailiesPlayed   int        `json:"dailiesPlayed"`
	WinRate         int        `json:"winRate"`
	CurrentStreak   int        `json:"currentStreak"`
	BestStreak      int        `json:"bestStreak"`
	LastDailyPlayed *time.Time `json:"lastDailyPlayed"`
	DevModeOverride bool       `json:"-"`
}

// HistoryEntry is one completed game in a user's history log.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"date"`
	PointsDelta int       `json:"points"`
	Word        string    `json:"word"`
	Tries       int       `json:"tries"`
	Won         bool      `json:"won"`
	Mode        game.Mode `json:"mode"`
}

// DailyResult is the terminal outcome of a daily game.
type DailyResult struct {
	Won       bool
	TriesUsed int
	Timestamp time.Time
}

// ApplyDailyResult folds a finished daily game into the aggregate.
// lastEntry is the timestamp of the user's previous daily history
// entry, nil when this is their first.
//
// The historical win count is re-derived from the stored win-rate
// percentage rather than kept as its own counter; the rounding drift
// this introduces is accepted.
func ApplyDailyResult(agg UserAggregate, result DailyResult, lastEntry *time.Time) UserAggregate {
	out := agg
	out.DailiesPlayed = agg.DailiesPlayed + 1

	totalWins := int(math.Round(float64(agg.WinRate*agg.DailiesPlayed) / 100))
	if result.Won {
		totalWins++
	}
	out.WinRate = int(math.Round(float64(totalWins) / float64(out.DailiesPlayed) * 100))

	switch {
	case !result.Won:
		out.CurrentStreak = 0
	case lastEntry == nil:
		out.CurrentStreak = 1
	default:
		// Whole 24h periods elapsed since the previous daily entry.
		daysDiff := int(math.Floor(result.Timestamp.Sub(*lastEntry).Hours() / 24))
		switch daysDiff {
		case 0:
			out.CurrentStreak = agg.CurrentStreak
		case 1:
			out.CurrentStreak = agg.CurrentStreak + 1
		default:
			out.CurrentStreak = 1
		}
	}
	out.BestStreak = max(agg.BestStreak, out.CurrentStreak)

	out.Points = agg.Points + game.PointsFor(result.Won, result.TriesUsed)
	if out.Points < 0 {
		out.Points = 0
	}

	played := result.Timestamp
	out.LastDailyPlayed = &played
	return out
}

// CanPlayDaily reports whether a user may start a daily game at now.
// Eligibility compares local calendar dates, not elapsed hours: a game
// at 23:59 yesterday leaves today's game available at 00:01.
func CanPlayDaily(agg UserAggregate, now time.Time) error {
	if agg.DevModeOverride || agg.LastDailyPlayed == nil {
		return nil
	}
	if midnightOf(*agg.LastDailyPlayed).Before(midnightOf(now)) {
		return nil
	}
	return ErrAlreadyPlayedToday
}

// midnightOf truncates a time to local midnight.
func midnightOf(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
