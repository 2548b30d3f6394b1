// Package identity resolves the active actor: an anonymous guest with a
// stable device-local identifier, or an authenticated account supplied by
// the auth collaborator.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/local"
)

// AuthCollaborator is the external authentication subsystem.
// SignedIn events are the sole migration trigger.
type AuthCollaborator interface {
	// CurrentSession returns the signed-in account, if any
	CurrentSession() (model.AccountID, bool)
	// Subscribe registers a callback for session events
	Subscribe(fn func(model.AuthEvent))
}

// Resolver tracks the active actor and raises actor-change events
type Resolver struct {
	local  *local.Store
	auth   AuthCollaborator
	logger *slog.Logger

	mu      sync.Mutex
	current model.Actor
	subs    []func(model.ActorChange)
}

// New creates a resolver over the guest-local store and auth collaborator
func New(localStore *local.Store, auth AuthCollaborator, logger *slog.Logger) *Resolver {
	return &Resolver{
		local:  localStore,
		auth:   auth,
		logger: logger,
	}
}

// Start resolves the initial actor and begins listening for auth events.
// With no prior authenticated session a stable guest identifier is minted
// once and reused thereafter.
func (r *Resolver) Start(ctx context.Context) error {
	var actor model.Actor
	if accountID, ok := r.auth.CurrentSession(); ok {
		actor = model.AuthenticatedActor(accountID)
	} else {
		guestID, err := r.ensureGuestID(ctx)
		if err != nil {
			return err
		}
		actor = model.GuestActor(guestID)
	}

	r.mu.Lock()
	r.current = actor
	r.mu.Unlock()

	r.auth.Subscribe(r.handleAuthEvent)
	return nil
}

// CurrentActor returns the active actor
func (r *Resolver) CurrentActor() model.Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers a callback for actor changes.
// Callbacks run synchronously on the event that caused the change.
func (r *Resolver) Subscribe(fn func(model.ActorChange)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *Resolver) handleAuthEvent(event model.AuthEvent) {
	ctx := context.Background()

	var next model.Actor
	switch event.Type {
	case model.AuthSignedIn:
		next = model.AuthenticatedActor(event.AccountID)
	case model.AuthSignedOut:
		// Sign-out reuses any stored guest identity or mints a fresh one;
		// it never triggers migration
		guestID, err := r.ensureGuestID(ctx)
		if err != nil {
			r.logger.Error("guest identity unavailable after sign-out",
				slog.String("error", err.Error()))
			return
		}
		next = model.GuestActor(guestID)
	default:
		return
	}

	r.mu.Lock()
	change := model.ActorChange{Previous: r.current, Current: next}
	r.current = next
	subs := make([]func(model.ActorChange), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	if change.Previous == change.Current {
		return
	}
	for _, fn := range subs {
		fn(change)
	}
}

// ensureGuestID returns the stored guest identifier, minting and persisting
// one on first use
func (r *Resolver) ensureGuestID(ctx context.Context) (model.GuestID, error) {
	guestID, err := r.local.GuestID(ctx)
	if err != nil {
		return "", err
	}
	if guestID != "" {
		return guestID, nil
	}

	guestID = model.GuestID("guest_" + uuid.NewString())
	if err := r.local.SetGuestID(ctx, guestID); err != nil {
		return "", err
	}
	r.logger.Info("minted guest identity", slog.String("guest_id", string(guestID)))
	return guestID, nil
}
