package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/dependencies/mocks"
	"github.com/mcoot/pointsync/internal/kv/memory"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/local"
)

// fakeAuth is a scripted auth collaborator
type fakeAuth struct {
	account model.AccountID
	active  bool
	subs    []func(model.AuthEvent)
}

func (f *fakeAuth) CurrentSession() (model.AccountID, bool) {
	return f.account, f.active
}

func (f *fakeAuth) Subscribe(fn func(model.AuthEvent)) {
	f.subs = append(f.subs, fn)
}

func (f *fakeAuth) emit(event model.AuthEvent) {
	for _, fn := range f.subs {
		fn(event)
	}
}

type ResolverSuite struct {
	suite.Suite
	local    *local.Store
	auth     *fakeAuth
	resolver *Resolver
	changes  []model.ActorChange
	ctx      context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	s.local = local.New(memory.New(), clk)
	s.auth = &fakeAuth{}
	s.resolver = New(s.local, s.auth, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.changes = nil
	s.ctx = context.Background()
}

func (s *ResolverSuite) start() {
	s.Require().NoError(s.resolver.Start(s.ctx))
	s.resolver.Subscribe(func(change model.ActorChange) {
		s.changes = append(s.changes, change)
	})
}

func (s *ResolverSuite) TestStartMintsGuestIdentity() {
	s.start()

	actor := s.resolver.CurrentActor()
	s.True(actor.IsGuest())
	s.NotEmpty(actor.GuestID)

	// The identity was persisted
	stored, err := s.local.GuestID(s.ctx)
	s.Require().NoError(err)
	s.Equal(actor.GuestID, stored)
}

func (s *ResolverSuite) TestGuestIdentityIsStable() {
	s.Require().NoError(s.local.SetGuestID(s.ctx, "guest_existing"))
	s.start()

	s.Equal(model.GuestActor("guest_existing"), s.resolver.CurrentActor())
}

func (s *ResolverSuite) TestStartWithActiveSession() {
	s.auth.account = "acct-1"
	s.auth.active = true
	s.start()

	s.Equal(model.AuthenticatedActor("acct-1"), s.resolver.CurrentActor())

	// No guest identity is minted while signed in
	stored, err := s.local.GuestID(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GuestID(""), stored)
}

func (s *ResolverSuite) TestSignInTransition() {
	s.Require().NoError(s.local.SetGuestID(s.ctx, "guest_abc"))
	s.start()

	s.auth.emit(model.AuthEvent{Type: model.AuthSignedIn, AccountID: "acct-1"})

	s.Equal(model.AuthenticatedActor("acct-1"), s.resolver.CurrentActor())
	s.Require().Len(s.changes, 1)
	s.Equal(model.GuestActor("guest_abc"), s.changes[0].Previous)
	s.Equal(model.AuthenticatedActor("acct-1"), s.changes[0].Current)
	s.True(s.changes[0].GuestToAuthenticated())
}

func (s *ResolverSuite) TestSignOutReturnsToStoredGuest() {
	s.Require().NoError(s.local.SetGuestID(s.ctx, "guest_abc"))
	s.start()

	s.auth.emit(model.AuthEvent{Type: model.AuthSignedIn, AccountID: "acct-1"})
	s.auth.emit(model.AuthEvent{Type: model.AuthSignedOut, AccountID: "acct-1"})

	s.Equal(model.GuestActor("guest_abc"), s.resolver.CurrentActor())
	s.Require().Len(s.changes, 2)
	s.False(s.changes[1].GuestToAuthenticated())
}

func (s *ResolverSuite) TestSignOutMintsGuestWhenRecordsWereCleared() {
	s.auth.account = "acct-1"
	s.auth.active = true
	s.start()

	// Migration cleared all guest records while signed in
	s.auth.emit(model.AuthEvent{Type: model.AuthSignedOut, AccountID: "acct-1"})

	actor := s.resolver.CurrentActor()
	s.True(actor.IsGuest())
	s.NotEmpty(actor.GuestID)
}
