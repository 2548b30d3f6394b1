package response

import (
	"time"

	"github.com/mcoot/pointsync/internal/auth"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/points"
)

// Actor represents the active actor in API responses
type Actor struct {
	Kind      string `json:"kind"` // "guest" or "authenticated"
	GuestID   string `json:"guest_id,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}

// ActorFromModel converts a model.Actor to a response Actor
func ActorFromModel(a model.Actor) Actor {
	if a.IsGuest() {
		return Actor{Kind: "guest", GuestID: string(a.GuestID)}
	}
	return Actor{Kind: "authenticated", AccountID: string(a.AccountID)}
}

// Balance is the response for the balance endpoint
type Balance struct {
	Balance int64 `json:"balance"`
	Actor   Actor `json:"actor"`
}

// HistoryEntry represents one ledger line in API responses
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Amount    int64     `json:"amount"`
}

// History is the response for the history endpoint, newest first
type History struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryFromModel converts ledger entries
func HistoryFromModel(entries []model.HistoryEntry) History {
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{Timestamp: e.Timestamp, Reason: e.Reason, Amount: e.Amount}
	}
	return History{Entries: out}
}

// PlayRecord represents one counted play
type PlayRecord struct {
	DateKey  string `json:"date_key"`
	GameType string `json:"game_type"`
	BrandID  string `json:"brand_id,omitempty"`
}

// TodayPlays is the response for today's play list
type TodayPlays struct {
	DateKey   string       `json:"date_key"`
	PlaysUsed int          `json:"plays_used"`
	Records   []PlayRecord `json:"records"`
}

// TodayPlaysFromModel converts the quota and records
func TodayPlaysFromModel(quota model.DailyQuota, records []model.GamePlayRecord) TodayPlays {
	out := make([]PlayRecord, len(records))
	for i, r := range records {
		out[i] = PlayRecord{DateKey: r.DateKey, GameType: string(r.GameType), BrandID: r.BrandID}
	}
	return TodayPlays{DateKey: quota.DateKey, PlaysUsed: quota.PlaysUsed, Records: out}
}

// Allowance is the response for the can-play check
type Allowance struct {
	CanPlay    bool `json:"can_play"`
	PlaysUsed  int  `json:"plays_used"`
	DailyLimit int  `json:"daily_limit"`
}

// Migration reports a completed guest balance migration
type Migration struct {
	Migrated        int64 `json:"migrated"`
	AlreadyMigrated bool  `json:"already_migrated,omitempty"`
}

// MigrationFromResult converts a migration result, nil in nil out
func MigrationFromResult(result *points.MigrationResult) *Migration {
	if result == nil {
		return nil
	}
	return &Migration{Migrated: result.Migrated, AlreadyMigrated: result.AlreadyMigrated}
}

// Auth is the response for authentication endpoints
type Auth struct {
	SessionToken string     `json:"session_token"`
	AccountID    string     `json:"account_id"`
	Username     string     `json:"username"`
	Migration    *Migration `json:"migration,omitempty"`
}

// AuthFromSession creates an Auth response from a session
func AuthFromSession(s *auth.Session, migration *Migration) Auth {
	return Auth{
		SessionToken: s.Token,
		AccountID:    string(s.AccountID),
		Username:     s.Username,
		Migration:    migration,
	}
}

// Brands is the response for the brand catalog
type Brands struct {
	Brands []model.Brand `json:"brands"`
}
