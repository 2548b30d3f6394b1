package model

import "time"

// AccountID identifies an authenticated account issued by the auth subsystem
type AccountID string

// GuestID identifies an anonymous on-device actor.
// Generated once per device and reused until migrated away.
type GuestID string

// Actor is the owner of all point and quota state.
// Exactly one actor is active at a time: a guest (GuestID set) or an
// authenticated account (AccountID set).
type Actor struct {
	AccountID AccountID
	GuestID   GuestID
}

// GuestActor returns an actor for the given guest identifier
func GuestActor(id GuestID) Actor {
	return Actor{GuestID: id}
}

// AuthenticatedActor returns an actor for the given account
func AuthenticatedActor(id AccountID) Actor {
	return Actor{AccountID: id}
}

// IsGuest reports whether the actor is an anonymous guest
func (a Actor) IsGuest() bool {
	return a.AccountID == ""
}

// IsZero reports whether no actor is set
func (a Actor) IsZero() bool {
	return a.AccountID == "" && a.GuestID == ""
}

// Account represents a registered account in the remote backend
// Stored separately from point state (password hash never travels with points)
type Account struct {
	ID           AccountID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
