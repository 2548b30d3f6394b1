package points

import (
	"context"
	"log/slog"

	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/store/local"
	"github.com/mcoot/pointsync/internal/store/remote"
)

// TransferReason is the ledger label for migrated guest balances
const TransferReason = "guest points transfer"

// MigrationResult reports the outcome of a migration attempt
type MigrationResult struct {
	// Migrated is the amount transferred into the account, 0 when there was
	// nothing to transfer or the account had already received points
	Migrated int64
	// AlreadyMigrated is set when the account had a prior balance record and
	// the guest balance was deliberately not transferred
	AlreadyMigrated bool
}

// Coordinator performs the one-time transfer of a guest's accumulated
// balance into a newly authenticated account. The existence of a balance
// record for the target account is the sole de-duplication mechanism: an
// account that has ever received points is never credited again, so a
// second login on any device cannot double-migrate.
type Coordinator struct {
	local  *local.Store
	remote *remote.Store
	logger *slog.Logger
}

// NewCoordinator creates a migration coordinator
func NewCoordinator(localStore *local.Store, remoteStore *remote.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		local:  localStore,
		remote: remoteStore,
		logger: logger,
	}
}

// Migrate transfers the guest balance into account. On failure all local
// guest records stay intact so the next login can retry; the error is never
// fatal to sign-in.
func (c *Coordinator) Migrate(ctx context.Context, account model.AccountID) (MigrationResult, error) {
	if c.remote == nil {
		return MigrationResult{}, model.ErrRemoteUnavailable
	}

	guestBalance, err := c.local.LoadBalance(ctx)
	if err != nil {
		return MigrationResult{}, err
	}
	if guestBalance <= 0 {
		return MigrationResult{}, nil
	}

	exists, err := c.remote.HasBalanceRecord(ctx, account)
	if err != nil {
		return MigrationResult{}, err
	}
	if exists {
		// The account has received points before. Clear the guest records
		// anyway so a later login cannot re-attempt the transfer.
		if err := c.local.Clear(ctx); err != nil {
			c.logger.Warn("could not clear guest records after skipped migration",
				slog.String("error", err.Error()))
		}
		c.logger.Info("migration skipped, account already has a balance record",
			slog.String("account_id", string(account)),
			slog.Int64("guest_balance", guestBalance))
		return MigrationResult{AlreadyMigrated: true}, nil
	}

	if _, err := c.remote.AddPoints(ctx, account, guestBalance, TransferReason); err != nil {
		return MigrationResult{}, err
	}

	// The transfer is committed. If clearing fails, the balance record now
	// present on the account makes any retry a no-op, so log only.
	if err := c.local.Clear(ctx); err != nil {
		c.logger.Warn("could not clear guest records after migration",
			slog.String("error", err.Error()))
	}

	c.logger.Info("guest balance migrated",
		slog.String("account_id", string(account)),
		slog.Int64("amount", guestBalance))
	return MigrationResult{Migrated: guestBalance}, nil
}
