// Package signal subscribes to the remote invalidation channel. Signals
// carry no payload: each message, whatever its content, triggers an
// unconditional full refetch. Bursts are not coalesced.
package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Listener maintains a websocket subscription to the remote signal
// endpoint and invokes the invalidation callback once per message.
type Listener struct {
	url          string
	logger       *logrus.Logger
	onInvalidate func(ctx context.Context)
	redialWait   time.Duration
}

func NewListener(url string, logger *logrus.Logger, onInvalidate func(ctx context.Context)) *Listener {
	return &Listener{
		url:          url,
		logger:       logger,
		onInvalidate: onInvalidate,
		redialWait:   5 * time.Second,
	}
}

// Run dials the signal endpoint and processes messages until the context
// is cancelled, redialing after connection loss. A dead signal channel
// only costs freshness, never correctness, so failures are logged and
// retried forever.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listenOnce(ctx); err != nil {
			l.logger.WithError(err).Warn("SignalListener.connection lost, redialing")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.redialWait):
		}
	}
}

func (l *Listener) listenOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	l.logger.WithField("url", l.url).Info("SignalListener.connected")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		l.logger.WithField("signal", string(message)).Debug("SignalListener.invalidation received")
		l.onInvalidate(ctx)
	}
}
