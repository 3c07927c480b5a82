package actions

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/ledger"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// SaveNote creates a reminder note when ID is empty, otherwise updates it.
type SaveNote struct {
	ID   string
	Note ledger.Note

	IAction
}

func (a *SaveNote) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.ID == "" {
		store.CreateNote(ctx, a.Note)
	} else {
		store.UpdateNote(ctx, a.ID, a.Note)
	}
	return nil
}

// DeleteNote removes a reminder note.
type DeleteNote struct {
	ID string

	IAction
}

func (a *DeleteNote) Perform(ctx context.Context, store *syncstore.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.DeleteNote(ctx, a.ID)
	return nil
}
