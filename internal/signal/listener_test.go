package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/jeswinjohn/ledgerd/internal/logging"
)

func newSignalServer(t *testing.T, messages []string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestListener_InvalidatesOncePerMessage(t *testing.T) {
	url := newSignalServer(t, []string{"transaction:created", "savings:expired"})

	var invalidations atomic.Int32
	done := make(chan struct{})
	listener := NewListener(url, logging.SetupLogging(), func(context.Context) {
		if invalidations.Add(1) == 2 {
			close(done)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Run(ctx)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("invalidations never arrived")
	}
	assert.Equal(t, int32(2), invalidations.Load())
}

func TestListener_StopsOnContextCancel(t *testing.T) {
	url := newSignalServer(t, nil)

	listener := NewListener(url, logging.SetupLogging(), func(context.Context) {})
	listener.redialWait = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(stopped)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}

func TestListener_NoGoroutinePileupAcrossReconnects(t *testing.T) {
	// Server that accepts the upgrade and drops the connection right away,
	// forcing the read loop to return while the context stays live.
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	t.Cleanup(server.Close)
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	listener := NewListener(url, logging.SetupLogging(), func(context.Context) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		listener.listenOnce(ctx)
	}

	// Let the per-connection watchers unwind before counting.
	var after int
	for i := 0; i < 50; i++ {
		after = runtime.NumGoroutine()
		if after <= before+2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, after, before+2)
}

func TestListener_DialFailureReturnsForRedial(t *testing.T) {
	listener := NewListener("ws://127.0.0.1:1/signals", logging.SetupLogging(), func(context.Context) {})

	err := listener.listenOnce(context.Background())
	assert.Error(t, err)
}
