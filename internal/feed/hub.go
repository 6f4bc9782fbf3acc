// SPDX-License-Identifier: MIT
package feed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"rowwarp/internal/ingest"
	applog "rowwarp/internal/log"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeTimeout = 2 * time.Second
	queueSize    = 16
)

// ErrHubClosed is returned by Broadcast after Close.
var ErrHubClosed = errors.New("feed: hub closed")

// Hub serves the vector stream to every connected renderer. It is an
// http.Handler; mount it on a path or wrap it in a server with Serve.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool

	queue chan *websocket.PreparedMessage
	done  chan struct{}
	wg    sync.WaitGroup

	sent    uint64
	dropped uint64
}

// NewHub returns a hub with its broadcast goroutine running.
func NewHub() *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Renderers may be served from anywhere on the LAN.
			},
		},
		clients: make(map[*websocket.Conn]struct{}),
		queue:   make(chan *websocket.PreparedMessage, queueSize),
		done:    make(chan struct{}),
	}

	h.wg.Add(1)
	go h.broadcastLoop()
	return h
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("Hub: Upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	applog.Infof("Hub: Client %s connected, total: %d", conn.RemoteAddr(), n)

	// Renderers never send; a read error means the client went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()

	conn.Close()
	if ok {
		applog.Infof("Hub: Client %s disconnected, total: %d", conn.RemoteAddr(), n)
	}
}

// Broadcast encodes vec as {"d": vec} and queues it for every client. The
// caller keeps ownership of vec. When the queue is full the message is
// dropped; renderers only care about the newest vector.
func (h *Hub) Broadcast(vec []float64) error {
	data, err := ingest.Encode(vec)
	if err != nil {
		return err
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return errors.Wrap(err, "preparing message")
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.queue <- pm:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
	}
	return nil
}

func (h *Hub) broadcastLoop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case pm := <-h.queue:
			h.writeAll(pm)
		}
	}
}

func (h *Hub) writeAll(pm *websocket.PreparedMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WritePreparedMessage(pm); err != nil {
			applog.Warnf("Hub: Error sending to %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.clients, conn)
			continue
		}
		h.sent++
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stats returns how many messages were written to clients and how many
// broadcasts were dropped on a full queue.
func (h *Hub) Stats() (sent, dropped uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent, h.dropped
}

// Close disconnects every client and stops the broadcast goroutine.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopping"),
			time.Now().Add(writeTimeout))
		conn.Close()
	}
	clear(h.clients)
	h.mu.Unlock()

	h.wg.Wait()
	applog.Infof("Hub: Closed")
	return nil
}

// Serve listens on addr and serves the hub at path until ctx is cancelled.
func Serve(ctx context.Context, addr, path string, hub *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(path, hub)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		applog.Infof("Hub: Serving on %s%s", addr, path)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "feed server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down feed server")
	}
	return nil
}
