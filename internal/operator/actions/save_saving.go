package actions

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// SaveSaving creates a savings record when ID is empty, otherwise updates
// the record with that id. Close is an update that carries the terminal
// status.
type SaveSaving struct {
	ID     string
	Record ledger.SavingsRecord

	IAction
}

func (a *SaveSaving) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.ID == "" {
		store.CreateSaving(ctx, a.Record)
	} else {
		store.UpdateSaving(ctx, a.ID, a.Record)
	}
	return nil
}

// DeleteSaving removes a savings record. A declined confirmation never
// reaches this point; by the time an action is enqueued the decision is
// final.
type DeleteSaving struct {
	ID string

	IAction
}

func (a *DeleteSaving) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.DeleteSaving(ctx, a.ID)
	return nil
}

// AddDeposit records one monthly RD payment.
type AddDeposit struct {
	ID    string
	Entry ledger.DepositEntry

	IAction
}

func (a *AddDeposit) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.AppendDeposit(ctx, a.ID, a.Entry)
	return nil
}
