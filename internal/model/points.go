package model

import "time"

// GameType identifies one of the daily mini-games
type GameType string

const (
	GameWordGuess        GameType = "word_guess"
	GameGridMatch        GameType = "grid_match"
	GameProjectileTiming GameType = "projectile_timing"
)

// Valid reports whether the game type is one of the known games
func (g GameType) Valid() bool {
	switch g {
	case GameWordGuess, GameGridMatch, GameProjectileTiming:
		return true
	}
	return false
}

// HistoryEntry is one line of the append-only point ledger, newest first.
// The balance always equals the sum of Amount over all entries for an actor.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Amount    int64     `json:"amount"`
}

// DailyQuota tracks game plays consumed for one calendar day.
// A DateKey that is not the current day reads as zero plays used.
type DailyQuota struct {
	DateKey   string `json:"dateKey"`
	PlaysUsed int    `json:"count"`
}

// GamePlayRecord is one counted play, kept only for today's play list
// and cleared wholesale on date rollover
type GamePlayRecord struct {
	DateKey  string   `json:"dateKey"`
	GameType GameType `json:"gameType"`
	BrandID  string   `json:"brandId,omitempty"`
}

// DateKey formats a time as the calendar-day key used for quota scoping
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
