package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pointsync/internal/dependencies/mocks"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/remote"
)

type ServiceSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	store   *remote.Store
	clock   *mocks.MockClock
	service *Service
	events  []model.AuthEvent
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})

	s.clock = mocks.NewMockClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	s.store = remote.NewWithClient(client, remote.DefaultConfig(), s.clock)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, s.clock, DefaultConfig(), logger)
	s.events = nil
	s.service.Subscribe(func(event model.AuthEvent) {
		s.events = append(s.events, event)
	})
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *ServiceSuite) TestRegisterSignsIn() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.Equal("alice", session.Username)

	account, active := s.service.CurrentSession()
	s.True(active)
	s.Equal(session.AccountID, account)

	s.Require().Len(s.events, 1)
	s.Equal(model.AuthSignedIn, s.events[0].Type)
	s.Equal(session.AccountID, s.events[0].AccountID)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLogin() {
	registered, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)
	s.Equal(registered.AccountID, session.AccountID)

	s.Require().Len(s.events, 2)
	s.Equal(model.AuthSignedIn, s.events[1].Type)
}

func (s *ServiceSuite) TestLoginBadCredentials() {
	_, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(s.ctx, "nobody", "hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLogout() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(session.Token))

	_, active := s.service.CurrentSession()
	s.False(active)

	s.Require().Len(s.events, 2)
	s.Equal(model.AuthSignedOut, s.events[1].Type)
	s.Equal(session.AccountID, s.events[1].AccountID)

	s.ErrorIs(s.service.Logout(session.Token), ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSession() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.AccountID, validated.AccountID)

	_, err = s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpiry() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, active := s.service.CurrentSession()
	s.False(active)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	session, err := s.service.Register(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestNilStore() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := New(nil, s.clock, DefaultConfig(), logger)

	_, err := service.Register(s.ctx, "alice", "hunter2")
	s.ErrorIs(err, ErrUnavailable)

	_, err = service.Login(s.ctx, "alice", "hunter2")
	s.ErrorIs(err, ErrUnavailable)
}
