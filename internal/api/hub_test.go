package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return NewHub(logger.New(cfg))
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesSubscriber(t *testing.T) {
	hub := newTestHub(t)
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.Broadcast(&contracts.ScanResult{
		Signals: []contracts.Signal{{Ticker: "AAPL34", Label: contracts.LabelGold}},
	})

	var received contracts.ScanResult
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&received))
	require.Len(t, received.Signals, 1)
	assert.Equal(t, "AAPL34", received.Signals[0].Ticker)
}

func TestHub_DroppedClientIsRemoved(t *testing.T) {
	hub := newTestHub(t)
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := newTestHub(t)
	hub.Broadcast(&contracts.ScanResult{}) // must not panic
	assert.Zero(t, hub.ClientCount())
}
