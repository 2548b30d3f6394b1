// Package points contains the synchronization engine: the in-memory
// canonical view of an actor's balance, ledger, and daily play quota, kept
// consistent with whichever backend the active actor selects.
package points

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pointsync/internal/dependencies/clock"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store"
	"github.com/mcoot/pointsync/internal/store/local"
	"github.com/mcoot/pointsync/internal/store/remote"
)

// Config holds configuration for the engine
type Config struct {
	// DailyLimit is the maximum number of game plays per local calendar day
	DailyLimit int
	// HistoryLimit bounds how many ledger entries are loaded on activation
	HistoryLimit int
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		DailyLimit:   10,
		HistoryLimit: 50,
	}
}

// Engine owns the canonical in-memory point state for the active actor.
//
// Point mutations are applied optimistically and rolled back verbatim when
// persistence fails. They are serialized: a second mutation waits for the
// in-flight one to resolve. The daily quota lives behind its own lock so a
// boundary reset can interleave with an in-flight point mutation without
// ever touching balance or history.
type Engine struct {
	local    *local.Store
	remote   *remote.Store
	migrator *Coordinator
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	// stateMu guards actor and backend selection
	stateMu sync.RWMutex
	actor   model.Actor
	backend store.Backend

	// mu serializes point mutations
	mu      sync.Mutex
	balance int64
	history []model.HistoryEntry

	// qmu guards the independent daily quota fields
	qmu   sync.Mutex
	quota model.DailyQuota
	plays []model.GamePlayRecord

	migrationMu   sync.Mutex
	lastMigration *MigrationResult
}

// NewEngine creates the synchronization engine. remoteStore may be nil when
// the remote backend is unreachable; authenticated activation then fails
// with ErrRemoteUnavailable.
func NewEngine(localStore *local.Store, remoteStore *remote.Store, migrator *Coordinator, clk clock.Clock, cfg Config, logger *slog.Logger) *Engine {
	if cfg.DailyLimit == 0 {
		cfg.DailyLimit = DefaultConfig().DailyLimit
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}
	return &Engine{
		local:    localStore,
		remote:   remoteStore,
		migrator: migrator,
		clock:    clk,
		logger:   logger,
		cfg:      cfg,
	}
}

// Activate selects the backend for the actor and loads all state from it.
// A remote load failure degrades to local state with a log line rather than
// blocking activation.
func (e *Engine) Activate(ctx context.Context, actor model.Actor) error {
	if actor.IsZero() {
		return model.ErrNoActor
	}

	var backend store.Backend
	if actor.IsGuest() {
		backend = e.local
	} else {
		if e.remote == nil {
			return model.ErrRemoteUnavailable
		}
		backend = e.remote.For(actor.AccountID)
	}

	balance, history, quota, plays, err := e.loadState(ctx, backend)
	if err != nil {
		if actor.IsGuest() {
			return err
		}
		// Degraded read: stale or zero local data beats a blocked UI.
		// Writes still target the remote backend.
		e.logger.Warn("remote load failed, falling back to local state",
			slog.String("account_id", string(actor.AccountID)),
			slog.String("error", err.Error()))
		balance, history, quota, plays, err = e.loadState(ctx, e.local)
		if err != nil {
			e.logger.Warn("local fallback load failed, starting empty",
				slog.String("error", err.Error()))
			balance, history, quota, plays = 0, nil, model.DailyQuota{DateKey: model.DateKey(e.clock.Now())}, nil
		}
	}

	e.stateMu.Lock()
	e.actor = actor
	e.backend = backend
	e.stateMu.Unlock()

	e.mu.Lock()
	e.balance = balance
	e.history = history
	e.mu.Unlock()

	e.qmu.Lock()
	e.quota = quota
	e.plays = plays
	e.qmu.Unlock()

	return nil
}

func (e *Engine) loadState(ctx context.Context, backend store.Backend) (int64, []model.HistoryEntry, model.DailyQuota, []model.GamePlayRecord, error) {
	balance, err := backend.LoadBalance(ctx)
	if err != nil {
		return 0, nil, model.DailyQuota{}, nil, err
	}
	history, err := backend.LoadHistory(ctx, e.cfg.HistoryLimit)
	if err != nil {
		return 0, nil, model.DailyQuota{}, nil, err
	}
	quota, plays, err := backend.TodayPlays(ctx)
	if err != nil {
		return 0, nil, model.DailyQuota{}, nil, err
	}
	return balance, history, quota, plays, nil
}

// CurrentActor returns the actor the engine is activated for
func (e *Engine) CurrentActor() model.Actor {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.actor
}

func (e *Engine) currentBackend() store.Backend {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.backend
}

// AddPoints credits the actor with a positive point delta and prepends the
// matching ledger entry. The mutation is applied optimistically and rolled
// back verbatim if persistence fails. Returns the committed balance.
func (e *Engine) AddPoints(ctx context.Context, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, model.ErrInvalidAmount
	}
	backend := e.currentBackend()
	if backend == nil {
		return 0, model.ErrNoActor
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.snapshotPoints()

	e.balance += amount
	e.history = append([]model.HistoryEntry{{
		Timestamp: e.clock.Now(),
		Reason:    reason,
		Amount:    amount,
	}}, e.history...)

	newBalance, err := backend.AddPoints(ctx, amount, reason)
	if err != nil {
		e.restorePoints(snap)
		return 0, err
	}

	// The persisted balance is canonical; it may legitimately differ from
	// the optimistic value if concurrent remote mutations occurred
	e.balance = newBalance
	return e.balance, nil
}

// RecordGamePlay charges one play against today's quota and appends the play
// record, regardless of whether the game produced points. Every call counts:
// per-session de-duplication is the caller's responsibility. A persistence
// failure keeps the in-memory charge and is reconciled on the next load,
// since losing a quota charge is lower-risk than losing currency.
func (e *Engine) RecordGamePlay(ctx context.Context, gameType model.GameType, brandID string) error {
	backend := e.currentBackend()
	if backend == nil {
		return model.ErrNoActor
	}

	today := model.DateKey(e.clock.Now())

	e.qmu.Lock()
	if e.quota.DateKey != today {
		e.quota = model.DailyQuota{DateKey: today}
		e.plays = nil
	}
	e.quota.PlaysUsed++
	e.plays = append(e.plays, model.GamePlayRecord{
		DateKey:  today,
		GameType: gameType,
		BrandID:  brandID,
	})
	e.qmu.Unlock()

	if err := backend.RecordGamePlay(ctx, gameType, brandID); err != nil {
		e.logger.Warn("game play persist failed, counter will reconcile on next load",
			slog.String("game_type", string(gameType)),
			slog.String("error", err.Error()))
	}
	return nil
}

// CanPlay reports whether the actor has quota left today. A quota record
// from a previous day reads as zero plays without mutating state; the
// actual reset belongs to the boundary handler.
func (e *Engine) CanPlay() bool {
	used, limit := e.allowance()
	return used < limit
}

// Allowance returns today's used plays and the daily limit
func (e *Engine) Allowance() (used, limit int) {
	return e.allowance()
}

func (e *Engine) allowance() (int, int) {
	today := model.DateKey(e.clock.Now())

	e.qmu.Lock()
	defer e.qmu.Unlock()
	if e.quota.DateKey != today {
		return 0, e.cfg.DailyLimit
	}
	return e.quota.PlaysUsed, e.cfg.DailyLimit
}

// OnNewDay handles the boundary clock's signal: reset the daily quota and
// clear today's play list. Balance and history are never touched, so this
// is safe to interleave with an in-flight point mutation.
func (e *Engine) OnNewDay(ctx context.Context, now time.Time) {
	dateKey := model.DateKey(now)

	e.qmu.Lock()
	e.quota = model.DailyQuota{DateKey: dateKey}
	e.plays = nil
	e.qmu.Unlock()

	backend := e.currentBackend()
	if backend == nil {
		return
	}
	// Guests persist the reset; the remote backend computes "today"
	// independently and its ResetDaily is a no-op
	if err := backend.ResetDaily(ctx, dateKey); err != nil {
		e.logger.Warn("daily reset persist failed",
			slog.String("date", dateKey),
			slog.String("error", err.Error()))
	}
}

// OnActorChanged reacts to actor transitions: the guest sign-in transition
// runs the one-time balance migration, then the engine re-activates for the
// new actor. Migration failure is never fatal to sign-in.
func (e *Engine) OnActorChanged(ctx context.Context, change model.ActorChange) {
	if change.GuestToAuthenticated() && e.migrator != nil {
		result, err := e.migrator.Migrate(ctx, change.Current.AccountID)
		if err != nil {
			e.logger.Warn("guest balance migration failed, local records kept for retry",
				slog.String("account_id", string(change.Current.AccountID)),
				slog.String("error", err.Error()))
		} else {
			e.migrationMu.Lock()
			e.lastMigration = &result
			e.migrationMu.Unlock()
		}
	}

	if err := e.Activate(ctx, change.Current); err != nil {
		e.logger.Error("actor activation failed",
			slog.String("error", err.Error()))
	}
}

// TakeMigrationNotice returns the most recent migration result for UI
// notification, at most once
func (e *Engine) TakeMigrationNotice() *MigrationResult {
	e.migrationMu.Lock()
	defer e.migrationMu.Unlock()
	result := e.lastMigration
	e.lastMigration = nil
	return result
}

// Balance returns the in-memory canonical balance
func (e *Engine) Balance() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// History returns the in-memory ledger, newest first
func (e *Engine) History() []model.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	history := make([]model.HistoryEntry, len(e.history))
	copy(history, e.history)
	return history
}

// TodayPlays returns today's quota and play records. Stale state from a
// previous day reads as an empty day.
func (e *Engine) TodayPlays() (model.DailyQuota, []model.GamePlayRecord) {
	today := model.DateKey(e.clock.Now())

	e.qmu.Lock()
	defer e.qmu.Unlock()
	if e.quota.DateKey != today {
		return model.DailyQuota{DateKey: today}, nil
	}
	plays := make([]model.GamePlayRecord, len(e.plays))
	copy(plays, e.plays)
	return e.quota, plays
}
