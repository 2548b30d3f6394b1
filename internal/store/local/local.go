// Package local implements the guest-mode backend over the device-local
// key-value store.
//
// The persisted keys are a fixed contract shared with other guest-mode
// tooling and must not change:
//
//	points       stringified integer balance
//	history      JSON array of ledger entries, newest first
//	daily_games  JSON {dateKey, count}
//	game_history JSON array of game play records
//	guest_id     stable guest identifier
//
// Keys are not namespaced per guest: only one guest identity is resident
// on a device at a time.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mcoot/pointsync/internal/dependencies/clock"
	"github.com/mcoot/pointsync/internal/kv"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store"
)

// Persisted key names (bit-exact contract)
const (
	keyPoints      = "points"
	keyHistory     = "history"
	keyDailyGames  = "daily_games"
	keyGameHistory = "game_history"
	keyGuestID     = "guest_id"
)

// Store is the guest-mode backend
type Store struct {
	kv    kv.Store
	clock clock.Clock
}

// Ensure Store implements the backend interface
var _ store.Backend = (*Store)(nil)

// New creates a guest-mode store over the given key-value store
func New(kvStore kv.Store, clk clock.Clock) *Store {
	return &Store{
		kv:    kvStore,
		clock: clk,
	}
}

// LoadBalance returns the guest balance, 0 when no record exists
func (s *Store) LoadBalance(ctx context.Context) (int64, error) {
	raw, err := s.kv.Get(ctx, keyPoints)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr(err)
	}
	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt points record %q: %w", raw, err)
	}
	return balance, nil
}

// LoadHistory returns the guest ledger, newest first
func (s *Store) LoadHistory(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	history, err := s.readHistory(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// AddPoints applies a positive delta to the guest balance and prepends the
// matching ledger entry. Returns the new balance.
func (s *Store) AddPoints(ctx context.Context, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, model.ErrInvalidAmount
	}

	balance, err := s.LoadBalance(ctx)
	if err != nil {
		return 0, err
	}
	history, err := s.readHistory(ctx)
	if err != nil {
		return 0, err
	}

	newBalance := balance + amount
	history = append([]model.HistoryEntry{{
		Timestamp: s.clock.Now(),
		Reason:    reason,
		Amount:    amount,
	}}, history...)

	if err := s.kv.Set(ctx, keyPoints, strconv.FormatInt(newBalance, 10)); err != nil {
		return 0, storageErr(err)
	}
	if err := s.writeHistory(ctx, history); err != nil {
		// The balance landed but the ledger entry did not. Undo the balance
		// write so the committed state keeps balance == sum(history); the
		// mutation as a whole still reports failure either way.
		_ = s.kv.Set(ctx, keyPoints, strconv.FormatInt(balance, 10))
		return 0, err
	}
	return newBalance, nil
}

// TodayPlays returns today's quota and play records. A record from a
// previous day reads as zero plays without being rewritten.
func (s *Store) TodayPlays(ctx context.Context) (model.DailyQuota, []model.GamePlayRecord, error) {
	today := model.DateKey(s.clock.Now())

	quota, err := s.readQuota(ctx)
	if err != nil {
		return model.DailyQuota{}, nil, err
	}
	if quota.DateKey != today {
		return model.DailyQuota{DateKey: today}, nil, nil
	}

	records, err := s.readPlayRecords(ctx)
	if err != nil {
		return model.DailyQuota{}, nil, err
	}
	return quota, records, nil
}

// RecordGamePlay charges one play for today, rolling a stale record over
// to the current day first
func (s *Store) RecordGamePlay(ctx context.Context, gameType model.GameType, brandID string) error {
	today := model.DateKey(s.clock.Now())

	quota, err := s.readQuota(ctx)
	if err != nil {
		return err
	}
	var records []model.GamePlayRecord
	if quota.DateKey == today {
		if records, err = s.readPlayRecords(ctx); err != nil {
			return err
		}
	} else {
		quota = model.DailyQuota{DateKey: today}
	}

	quota.PlaysUsed++
	records = append(records, model.GamePlayRecord{
		DateKey:  today,
		GameType: gameType,
		BrandID:  brandID,
	})

	if err := s.writeQuota(ctx, quota); err != nil {
		return err
	}
	return s.writePlayRecords(ctx, records)
}

// ResetDaily persists a zeroed quota for the new day and clears the
// play list
func (s *Store) ResetDaily(ctx context.Context, dateKey string) error {
	if err := s.writeQuota(ctx, model.DailyQuota{DateKey: dateKey}); err != nil {
		return err
	}
	return s.writePlayRecords(ctx, []model.GamePlayRecord{})
}

// GuestID returns the stored guest identifier, empty if none was minted yet
func (s *Store) GuestID(ctx context.Context) (model.GuestID, error) {
	raw, err := s.kv.Get(ctx, keyGuestID)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", storageErr(err)
	}
	return model.GuestID(raw), nil
}

// SetGuestID durably stores the guest identifier
func (s *Store) SetGuestID(ctx context.Context, id model.GuestID) error {
	if err := s.kv.Set(ctx, keyGuestID, string(id)); err != nil {
		return storageErr(err)
	}
	return nil
}

// Clear removes every guest record, including the guest identifier.
// Called after a successful balance migration.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{keyPoints, keyHistory, keyDailyGames, keyGameHistory, keyGuestID} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return storageErr(err)
		}
	}
	return nil
}

func (s *Store) readHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	var history []model.HistoryEntry
	if err := s.readJSON(ctx, keyHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Store) writeHistory(ctx context.Context, history []model.HistoryEntry) error {
	return s.writeJSON(ctx, keyHistory, history)
}

func (s *Store) readQuota(ctx context.Context) (model.DailyQuota, error) {
	var quota model.DailyQuota
	if err := s.readJSON(ctx, keyDailyGames, &quota); err != nil {
		return model.DailyQuota{}, err
	}
	return quota, nil
}

func (s *Store) writeQuota(ctx context.Context, quota model.DailyQuota) error {
	return s.writeJSON(ctx, keyDailyGames, quota)
}

func (s *Store) readPlayRecords(ctx context.Context) ([]model.GamePlayRecord, error) {
	var records []model.GamePlayRecord
	if err := s.readJSON(ctx, keyGameHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) writePlayRecords(ctx context.Context, records []model.GamePlayRecord) error {
	return s.writeJSON(ctx, keyGameHistory, records)
}

func (s *Store) readJSON(ctx context.Context, key string, target any) error {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return storageErr(err)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("corrupt %s record: %w", key, err)
	}
	return nil
}

func (s *Store) writeJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return storageErr(err)
	}
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
}
