// Package auth is the authentication collaborator: account registration,
// login sessions, and the signed-in/signed-out event stream that drives
// actor resolution.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pointsync/internal/dependencies/clock"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/remote"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrUnavailable        = errors.New("auth backend unavailable")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	AccountID model.AccountID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service handles accounts and session management.
// One session is active at a time (single actor per device); creating a new
// session replaces the previous one.
type Service struct {
	store  *remote.Store
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	active   *Session
	subs     []func(model.AuthEvent)

	sessionDuration time.Duration
}

// New creates a new auth service. store may be nil when the remote backend
// is unreachable; account operations then fail with ErrUnavailable.
func New(store *remote.Store, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		store:           store,
		clock:           clk,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CurrentSession returns the active signed-in account, if any
func (s *Service) CurrentSession() (model.AccountID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil || s.clock.Now().After(s.active.ExpiresAt) {
		return "", false
	}
	return s.active.AccountID, true
}

// Subscribe registers a callback for session events.
// Callbacks run synchronously on the call that caused the event.
func (s *Service) Subscribe(fn func(model.AuthEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Register creates an account and signs it in
func (s *Service) Register(ctx context.Context, username, password string) (*Session, error) {
	if s.store == nil {
		return nil, ErrUnavailable
	}

	_, err := s.store.AccountByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           model.AccountID("acct_" + uuid.NewString()),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.signIn(account), nil
}

// Login authenticates an account and signs it in
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if s.store == nil {
		return nil, ErrUnavailable
	}

	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(account), nil
}

// Logout invalidates the session and emits a signed-out event
func (s *Service) Logout(token string) error {
	s.mu.Lock()
	session, ok := s.sessions[token]
	if !ok {
		s.mu.Unlock()
		return ErrInvalidSession
	}
	delete(s.sessions, token)
	if s.active != nil && s.active.Token == token {
		s.active = nil
	}
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	s.emit(subs, model.AuthEvent{Type: model.AuthSignedOut, AccountID: session.AccountID})
	return nil
}

// ValidateSession checks a session token and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) signIn(account *model.Account) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     generateToken(),
		AccountID: account.ID,
		Username:  account.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.active = session
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	s.emit(subs, model.AuthEvent{Type: model.AuthSignedIn, AccountID: account.ID})
	return session
}

func (s *Service) snapshotSubsLocked() []func(model.AuthEvent) {
	subs := make([]func(model.AuthEvent), len(s.subs))
	copy(subs, s.subs)
	return subs
}

func (s *Service) emit(subs []func(model.AuthEvent), event model.AuthEvent) {
	for _, fn := range subs {
		fn(event)
	}
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
