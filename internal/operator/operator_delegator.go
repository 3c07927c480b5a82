package operator

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jeswinjohn/ledgerd/internal/operator/actions"
	"github.com/jeswinjohn/ledgerd/internal/syncstore"
)

// OperatorDelegator manages the queue, starts/stops Operators (workers),
// and enqueues items. One worker is the norm: the cache has a single
// writer, so mutations are applied in dispatch order.
type OperatorDelegator struct {
	store      *syncstore.Store
	logger     *logrus.Logger
	queue      chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewOperatorDelegator(s *syncstore.Store, logger *logrus.Logger, numWorkers int) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &OperatorDelegator{
		store:      s,
		logger:     logger,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.store, d.queue)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

// Process enqueues an action and blocks until it settles.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	d.queue <- item

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch enqueues an action fire-and-forget: the caller does not wait
// for completion. The action runs on a context detached from the
// caller's cancellation so an already-answered HTTP request does not
// abort the mutation.
func (d *OperatorDelegator) Dispatch(ctx context.Context, action actions.IAction) {
	item := ActionItem{
		ctx:    context.WithoutCancel(ctx),
		action: action,
	}

	select {
	case d.queue <- item:
	default:
		d.logger.Warn("OperatorDelegator.Dispatch.queue full, action dropped")
	}
}
