// Package store defines the persistence contract shared by the guest-local
// and remote-authoritative backends.
package store

import (
	"context"

	"github.com/mcoot/pointsync/internal/model"
)

// Backend persists point and quota state for the active actor.
// Exactly one variant is selected per actor activation: local device
// storage for guests, the remote authoritative backend for authenticated
// accounts. The engine never branches on actor kind at call sites.
type Backend interface {
	// LoadBalance returns the persisted balance, 0 if none recorded
	LoadBalance(ctx context.Context) (int64, error)

	// LoadHistory returns up to limit ledger entries, newest first.
	// limit <= 0 means no limit.
	LoadHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error)

	// AddPoints durably applies a positive point delta and appends the
	// matching ledger entry as one committed unit. The returned balance is
	// canonical: callers adopt it verbatim, never compute their own.
	AddPoints(ctx context.Context, amount int64, reason string) (int64, error)

	// TodayPlays returns the current day's quota and play records.
	// A stored quota from a previous day reads as zero without mutation.
	TodayPlays(ctx context.Context) (model.DailyQuota, []model.GamePlayRecord, error)

	// RecordGamePlay charges one play against today's quota
	RecordGamePlay(ctx context.Context, gameType model.GameType, brandID string) error

	// ResetDaily persists a zeroed quota for dateKey. Backends whose server
	// computes "today" independently on every read treat this as a no-op.
	ResetDaily(ctx context.Context, dateKey string) error
}
