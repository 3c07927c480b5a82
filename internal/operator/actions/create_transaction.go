package actions

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// CreateTransaction submits a coerced transaction through the sync store.
// The store absorbs transport failures, so Perform only fails on a
// cancelled context.
type CreateTransaction struct {
	Transaction ledger.Transaction
	IAction
}

func (a *CreateTransaction) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.CreateTransaction(ctx, a.Transaction)
	return nil
}
