package points

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/dependencies/mocks"
	"github.com/mcoot/pointsync/internal/kv/memory"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/local"
	"github.com/mcoot/pointsync/internal/store/remote"
)

type EngineSuite struct {
	suite.Suite
	kv     *memory.Store
	local  *local.Store
	mini   *miniredis.Miniredis
	remote *remote.Store
	clock  *mocks.MockClock
	engine *Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.kv = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	s.local = local.New(s.kv, s.clock)

	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.remote = remote.NewWithClient(client, remote.DefaultConfig(), s.clock)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	migrator := NewCoordinator(s.local, s.remote, logger)
	s.engine = NewEngine(s.local, s.remote, migrator, s.clock, DefaultConfig(), logger)
	s.ctx = context.Background()
}

func (s *EngineSuite) TearDownTest() {
	if s.remote != nil {
		_ = s.remote.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *EngineSuite) activateGuest() {
	s.Require().NoError(s.engine.Activate(s.ctx, model.GuestActor("guest_abc")))
}

func (s *EngineSuite) activateAccount(id model.AccountID) {
	s.Require().NoError(s.engine.Activate(s.ctx, model.AuthenticatedActor(id)))
}

// Activation

func (s *EngineSuite) TestActivateRequiresActor() {
	err := s.engine.Activate(s.ctx, model.Actor{})
	s.ErrorIs(err, model.ErrNoActor)
}

func (s *EngineSuite) TestMutationsRequireActivation() {
	_, err := s.engine.AddPoints(s.ctx, 5, "daily word game")
	s.ErrorIs(err, model.ErrNoActor)

	err = s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, "")
	s.ErrorIs(err, model.ErrNoActor)
}

func (s *EngineSuite) TestActivateLoadsPersistedState() {
	_, err := s.local.AddPoints(s.ctx, 5, "earlier session")
	s.Require().NoError(err)
	s.Require().NoError(s.local.RecordGamePlay(s.ctx, model.GameWordGuess, ""))

	s.activateGuest()

	s.Equal(int64(5), s.engine.Balance())
	s.Require().Len(s.engine.History(), 1)
	quota, _ := s.engine.TodayPlays()
	s.Equal(1, quota.PlaysUsed)
}

// Points

func (s *EngineSuite) TestAddPointsRejectsNonPositive() {
	s.activateGuest()

	_, err := s.engine.AddPoints(s.ctx, 0, "nothing")
	s.ErrorIs(err, model.ErrInvalidAmount)

	_, err = s.engine.AddPoints(s.ctx, -3, "deduction")
	s.ErrorIs(err, model.ErrInvalidAmount)

	s.Equal(int64(0), s.engine.Balance())
	s.Empty(s.engine.History())
}

func (s *EngineSuite) TestBalanceEqualsHistorySum() {
	s.activateGuest()

	amounts := []int64{5, 3, 10, 1}
	for _, amount := range amounts {
		_, err := s.engine.AddPoints(s.ctx, amount, "play")
		s.Require().NoError(err)
	}

	var sum int64
	for _, entry := range s.engine.History() {
		sum += entry.Amount
	}
	s.Equal(s.engine.Balance(), sum)
	s.Equal(int64(19), s.engine.Balance())
}

func (s *EngineSuite) TestHistoryNewestFirst() {
	s.activateGuest()

	_, err := s.engine.AddPoints(s.ctx, 5, "first")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.engine.AddPoints(s.ctx, 3, "second")
	s.Require().NoError(err)

	history := s.engine.History()
	s.Require().Len(history, 2)
	s.Equal("second", history[0].Reason)
	s.Equal("first", history[1].Reason)
}

func (s *EngineSuite) TestAddPointsRollsBackOnPersistFailure() {
	s.activateGuest()

	_, err := s.engine.AddPoints(s.ctx, 5, "kept")
	s.Require().NoError(err)

	s.kv.FailWrites(errors.New("disk full"))
	_, err = s.engine.AddPoints(s.ctx, 100, "lost")
	s.ErrorIs(err, model.ErrStorageUnavailable)

	// The optimistic update was rolled back verbatim
	s.Equal(int64(5), s.engine.Balance())
	history := s.engine.History()
	s.Require().Len(history, 1)
	s.Equal("kept", history[0].Reason)

	// A later mutation proceeds normally once writes recover
	s.kv.FailWrites(nil)
	balance, err := s.engine.AddPoints(s.ctx, 3, "recovered")
	s.Require().NoError(err)
	s.Equal(int64(8), balance)
}

func (s *EngineSuite) TestAuthenticatedAddPointsAdoptsServerBalance() {
	s.activateAccount("acct-1")

	// A concurrent mutation from another device lands between activation
	// and this device's next award
	_, err := s.remote.AddPoints(s.ctx, "acct-1", 7, "other device")
	s.Require().NoError(err)

	balance, err := s.engine.AddPoints(s.ctx, 5, "this device")
	s.Require().NoError(err)
	s.Equal(int64(12), balance)
	s.Equal(int64(12), s.engine.Balance())
}

func (s *EngineSuite) TestAuthenticatedRejectionRollsBack() {
	s.activateAccount("acct-1")

	_, err := s.engine.AddPoints(s.ctx, 5, "kept")
	s.Require().NoError(err)

	s.mini.Close()
	_, err = s.engine.AddPoints(s.ctx, 100, "lost")
	s.Require().Error(err)

	s.Equal(int64(5), s.engine.Balance())
	s.Require().Len(s.engine.History(), 1)
}

// Daily quota

func (s *EngineSuite) TestQuotaCountsEveryPlay() {
	s.activateGuest()

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, ""))
	}

	used, limit := s.engine.Allowance()
	s.Equal(3, used)
	s.Equal(10, limit)
	s.True(s.engine.CanPlay())
}

func (s *EngineSuite) TestQuotaExhaustion() {
	s.activateGuest()

	for i := 0; i < 10; i++ {
		s.True(s.engine.CanPlay())
		s.Require().NoError(s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, ""))
	}

	s.False(s.engine.CanPlay())
	used, limit := s.engine.Allowance()
	s.Equal(10, used)
	s.Equal(10, limit)
}

func (s *EngineSuite) TestQuotaChargesEvenWhenPersistFails() {
	s.activateGuest()

	s.kv.FailWrites(errors.New("disk full"))
	s.Require().NoError(s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, ""))

	used, _ := s.engine.Allowance()
	s.Equal(1, used)
}

func (s *EngineSuite) TestStaleQuotaReadsAsFreshDay() {
	s.activateGuest()

	for i := 0; i < 10; i++ {
		s.Require().NoError(s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, ""))
	}
	s.False(s.engine.CanPlay())

	// Crossing midnight restores the allowance even before the boundary
	// handler has run
	s.clock.SetDate(2026, 3, 11)

	s.True(s.engine.CanPlay())
	used, _ := s.engine.Allowance()
	s.Equal(0, used)

	quota, records := s.engine.TodayPlays()
	s.Equal("2026-03-11", quota.DateKey)
	s.Equal(0, quota.PlaysUsed)
	s.Empty(records)
}

func (s *EngineSuite) TestOnNewDayResetsQuotaOnly() {
	s.activateGuest()

	_, err := s.engine.AddPoints(s.ctx, 5, "daily word game")
	s.Require().NoError(err)
	s.Require().NoError(s.engine.RecordGamePlay(s.ctx, model.GameWordGuess, ""))

	s.clock.SetDate(2026, 3, 11)
	s.engine.OnNewDay(s.ctx, s.clock.Now())

	// Quota reset, balance and history untouched
	used, _ := s.engine.Allowance()
	s.Equal(0, used)
	s.Equal(int64(5), s.engine.Balance())
	s.Require().Len(s.engine.History(), 1)

	// The reset was persisted for the guest backend
	quota, records, err := s.local.TodayPlays(s.ctx)
	s.Require().NoError(err)
	s.Equal("2026-03-11", quota.DateKey)
	s.Equal(0, quota.PlaysUsed)
	s.Empty(records)
}

// Actor transitions

func (s *EngineSuite) TestGuestSignInMigratesBalance() {
	s.activateGuest()

	_, err := s.engine.AddPoints(s.ctx, 5, "word game")
	s.Require().NoError(err)
	_, err = s.engine.AddPoints(s.ctx, 3, "grid game")
	s.Require().NoError(err)

	s.engine.OnActorChanged(s.ctx, model.ActorChange{
		Previous: model.GuestActor("guest_abc"),
		Current:  model.AuthenticatedActor("acct-1"),
	})

	// The engine is now serving the account with the migrated balance
	s.Equal(model.AuthenticatedActor("acct-1"), s.engine.CurrentActor())
	s.Equal(int64(8), s.engine.Balance())

	notice := s.engine.TakeMigrationNotice()
	s.Require().NotNil(notice)
	s.Equal(int64(8), notice.Migrated)
	s.False(notice.AlreadyMigrated)

	// The notice is consumed exactly once
	s.Nil(s.engine.TakeMigrationNotice())

	// Guest records were cleared
	guestBalance, err := s.local.LoadBalance(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), guestBalance)
}

func (s *EngineSuite) TestSignOutDoesNotMigrate() {
	s.activateAccount("acct-1")
	_, err := s.engine.AddPoints(s.ctx, 5, "word game")
	s.Require().NoError(err)

	s.engine.OnActorChanged(s.ctx, model.ActorChange{
		Previous: model.AuthenticatedActor("acct-1"),
		Current:  model.GuestActor("guest_abc"),
	})

	s.Equal(model.GuestActor("guest_abc"), s.engine.CurrentActor())
	s.Equal(int64(0), s.engine.Balance())
	s.Nil(s.engine.TakeMigrationNotice())
}

func (s *EngineSuite) TestMigrationFailureKeepsGuestRecords() {
	s.activateGuest()
	_, err := s.engine.AddPoints(s.ctx, 5, "word game")
	s.Require().NoError(err)

	s.mini.Close()

	s.engine.OnActorChanged(s.ctx, model.ActorChange{
		Previous: model.GuestActor("guest_abc"),
		Current:  model.AuthenticatedActor("acct-1"),
	})

	// No notice, and the guest balance is intact for a later retry
	s.Nil(s.engine.TakeMigrationNotice())
	guestBalance, err := s.local.LoadBalance(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), guestBalance)
}

func (s *EngineSuite) TestActivateWithoutRemoteFailsForAccounts() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := NewEngine(s.local, nil, nil, s.clock, DefaultConfig(), logger)

	err := engine.Activate(s.ctx, model.AuthenticatedActor("acct-1"))
	s.ErrorIs(err, model.ErrRemoteUnavailable)

	s.Require().NoError(engine.Activate(s.ctx, model.GuestActor("guest_abc")))
}
