package operator

import (
	"context"

	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// Operator is the worker that processes mutation items from the queue.
// Each action runs its sync-store call, and the store's post-mutation
// refetch is what callers eventually observe.
type Operator struct {
	store *syncstore.Store
	queue chan ActionItem
}

func NewOperator(s *syncstore.Store, queue chan ActionItem) *Operator {
	return &Operator{
		store: s,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	err := item.action.Perform(item.ctx, o.store)
	if item.response != nil {
		item.response <- ActionItemResponse{err: err}
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
