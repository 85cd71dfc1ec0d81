package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/magefree/mage-goldfish/internal/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedSnapshot optimizer.Snapshot

func (f fixedSnapshot) Snapshot() optimizer.Snapshot { return optimizer.Snapshot(f) }

func startHub(t *testing.T, source Snapshotter) (*Hub, *httptest.Server) {
	t.Helper()
	// The pumps outlive the test body, so they must not log to t.
	hub := NewHub(source, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEpoch(t *testing.T, conn *websocket.Conn) Epoch {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type string `json:"type"`
		Data Epoch  `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "epoch", msg.Type)
	return msg.Data
}

func TestHub_StreamsEpochs(t *testing.T) {
	hub, srv := startHub(t, nil)
	conn := dial(t, srv)

	hub.OnEpoch(optimizer.EpochReport{
		Epoch:      1,
		Baseline:   6.5,
		Adds:       []optimizer.Delta{{Card: "Explore", Mean: 6.25, Delta: -0.25}},
		BestAdd:    "Explore",
		BestRemove: "Forest",
		Applied:    true,
		Duration:   1500 * time.Millisecond,
	})

	got := readEpoch(t, conn)
	assert.Equal(t, 1, got.Epoch)
	assert.Equal(t, 6.5, got.Baseline)
	require.Len(t, got.Adds, 1)
	assert.Equal(t, "Explore", got.Adds[0].Card)
	assert.Equal(t, "Forest", got.BestRemove)
	assert.True(t, got.Applied)
	assert.Equal(t, int64(1500), got.DurationMS)
}

func TestHub_LateClientGetsHistory(t *testing.T) {
	hub, srv := startHub(t, nil)
	hub.OnEpoch(optimizer.EpochReport{Epoch: 1})
	hub.OnEpoch(optimizer.EpochReport{Epoch: 2})

	conn := dial(t, srv)
	assert.Equal(t, 1, readEpoch(t, conn).Epoch)
	assert.Equal(t, 2, readEpoch(t, conn).Epoch)
}

func TestHub_Status(t *testing.T) {
	_, srv := startHub(t, fixedSnapshot{
		State:  optimizer.RunStateRunning,
		Epoch:  3,
		Epochs: 10,
		Range:  optimizer.DeckRange{{Name: "Forest", Quantity: 7, Min: 7, Max: 7}},
	})

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "RUNNING", st.State)
	assert.Equal(t, 3, st.Epoch)
	assert.Equal(t, 7, st.Cards)
	require.Len(t, st.Range, 1)
	assert.Equal(t, "Forest", st.Range[0].Name)
}

func TestHub_NoStatusWithoutSource(t *testing.T) {
	_, srv := startHub(t, nil)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHub_OnEpochAfterStop(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < 2*sendBuffer; i++ {
		hub.OnEpoch(optimizer.EpochReport{Epoch: i})
	}
}
