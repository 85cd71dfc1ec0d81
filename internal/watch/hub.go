// Package watch streams optimizer progress to websocket clients.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/magefree/mage-goldfish/internal/optimizer"
	"go.uber.org/zap"
)

const (
	DefaultWriteTimeout = 10 * time.Second
	DefaultPingInterval = 30 * time.Second

	sendBuffer = 256
)

// Snapshotter is implemented by *optimizer.Optimizer.
type Snapshotter interface {
	Snapshot() optimizer.Snapshot
}

// Hub fans epoch reports out to every connected client. Clients that
// connect late are first sent the most recent epochs.
type Hub struct {
	WriteTimeout time.Duration
	PingInterval time.Duration

	upgrader   websocket.Upgrader
	clients    map[*client]bool
	history    [][]byte
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	source     Snapshotter
	logger     *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. source may be nil, in which case /status is not
// served.
func NewHub(source Snapshotter, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		WriteTimeout: DefaultWriteTimeout,
		PingInterval: DefaultPingInterval,
		upgrader: websocket.Upgrader{
			// Read-only local stream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		source:     source,
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			start := len(h.history) - sendBuffer/2
			if start < 0 {
				start = 0
			}
			for _, msg := range h.history[start:] {
				c.send <- msg
			}
			h.logger.Debug("watch client registered",
				zap.String("remote", c.conn.RemoteAddr().String()),
				zap.Int("clients", len(h.clients)),
			)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("watch client unregistered", zap.Int("clients", len(h.clients)))
			}

		case msg := <-h.broadcast:
			h.history = append(h.history, msg)
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("watch client too slow, dropping",
						zap.String("remote", c.conn.RemoteAddr().String()))
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// OnEpoch publishes an epoch report. It implements optimizer.Observer.
func (h *Hub) OnEpoch(r optimizer.EpochReport) {
	msg, err := json.Marshal(Message{Type: "epoch", Data: epochView(r)})
	if err != nil {
		h.logger.Error("failed to encode epoch", zap.Int("epoch", r.Epoch), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Handler returns the routes of the hub: /ws for the stream and /status
// for the current optimizer snapshot.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	if h.source != nil {
		mux.HandleFunc("/status", h.serveStatus)
	}
	return mux
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Warn("watch server shutdown", zap.Error(err))
		}
	}()

	h.logger.Info("watch server listening", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) serveStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusView(h.source.Snapshot())); err != nil {
		h.logger.Warn("failed to write status", zap.Error(err))
	}
}

// readPump only watches for the client going away; inbound messages are
// ignored.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * h.PingInterval))
	})
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * h.PingInterval))
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
