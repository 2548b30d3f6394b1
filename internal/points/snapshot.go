package points

import "github.com/mcoot/pointsync/internal/model"

// pointsSnapshot captures the fields affected by an optimistic point
// mutation so a failed persistence call can restore them verbatim.
// History prepends allocate a fresh slice, so the captured slice is
// untouched by the mutation.
type pointsSnapshot struct {
	balance int64
	history []model.HistoryEntry
}

// snapshotPoints captures balance and history. Caller holds e.mu.
func (e *Engine) snapshotPoints() pointsSnapshot {
	return pointsSnapshot{
		balance: e.balance,
		history: e.history,
	}
}

// restorePoints restores a snapshot taken before a failed mutation.
// Caller holds e.mu.
func (e *Engine) restorePoints(snap pointsSnapshot) {
	e.balance = snap.balance
	e.history = snap.history
}
