package actions

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

type IAction interface {
	Perform(ctx context.Context, store *syncstore.Store) error
}
