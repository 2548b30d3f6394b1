package remote

import (
	"context"

	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store"
)

// Bound adapts the account-addressed Store to the per-actor Backend
// contract for a single authenticated account
type Bound struct {
	store   *Store
	account model.AccountID
}

// Ensure Bound implements the backend interface
var _ store.Backend = (*Bound)(nil)

// For binds the store to an authenticated account
func (s *Store) For(account model.AccountID) *Bound {
	return &Bound{
		store:   s,
		account: account,
	}
}

func (b *Bound) LoadBalance(ctx context.Context) (int64, error) {
	return b.store.Balance(ctx, b.account)
}

func (b *Bound) LoadHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	return b.store.History(ctx, b.account, limit)
}

func (b *Bound) AddPoints(ctx context.Context, amount int64, reason string) (int64, error) {
	return b.store.AddPoints(ctx, b.account, amount, reason)
}

func (b *Bound) TodayPlays(ctx context.Context) (model.DailyQuota, []model.GamePlayRecord, error) {
	return b.store.TodayPlays(ctx, b.account)
}

func (b *Bound) RecordGamePlay(ctx context.Context, gameType model.GameType, brandID string) error {
	return b.store.RecordGamePlay(ctx, b.account, gameType, brandID)
}

// ResetDaily is a no-op: the backend computes "today" on every read, so
// date rollover needs no client-persisted reset
func (b *Bound) ResetDaily(ctx context.Context, dateKey string) error {
	return nil
}
