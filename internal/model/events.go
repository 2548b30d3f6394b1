package model

// AuthEventType identifies the type of auth session event
type AuthEventType string

const (
	AuthSignedIn  AuthEventType = "signed_in"
	AuthSignedOut AuthEventType = "signed_out"
)

// AuthEvent is emitted by the auth collaborator on session changes
type AuthEvent struct {
	Type      AuthEventType
	AccountID AccountID // set for signed_in
}

// ActorChange describes a transition between active actors
type ActorChange struct {
	Previous Actor
	Current  Actor
}

// GuestToAuthenticated reports whether this change is the one-directional
// guest sign-in transition, the sole trigger for balance migration.
// The previous guest identifier travels in Previous.GuestID.
func (c ActorChange) GuestToAuthenticated() bool {
	return c.Previous.IsGuest() && !c.Previous.IsZero() && !c.Current.IsGuest()
}
