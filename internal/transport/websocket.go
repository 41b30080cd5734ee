// SPDX-License-Identifier: MIT
// Package transport implements detect.Publisher over websocket, UDP
// and the application log. Publishers run off the analysis goroutine's
// critical path and must never block it for long.
package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vocalpitch/internal/detect"
	applog "vocalpitch/internal/log"
)

// WebSocketPublisher broadcasts each detection snapshot as JSON to
// connected clients, with rate limiting so slow consumers and the
// network are not flooded.
type WebSocketPublisher struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server

	lastSend        time.Time
	minSendInterval time.Duration
}

// NewWebSocketPublisher starts an HTTP server on the given port and
// serves websocket upgrades on /state. The server runs in its own
// goroutine until Close.
func NewWebSocketPublisher(port string) *WebSocketPublisher {
	t := &WebSocketPublisher{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // UI collaborator may be served from anywhere
			},
		},
		minSendInterval: 50 * time.Millisecond,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/state", t.handleWebSocket)
	t.server = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		applog.Infof("transport: state websocket listening on port %s", port)
		if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
			applog.Errorf("transport: websocket server error: %v", err)
		}
	}()

	return t
}

// handleWebSocket upgrades a connection, registers the client and
// removes it again once its read loop fails (client gone).
func (t *WebSocketPublisher) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Errorf("transport: websocket upgrade error: %v", err)
		return
	}

	t.clientsMutex.Lock()
	t.clients[conn] = true
	t.clientsMutex.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.clientsMutex.Lock()
				delete(t.clients, conn)
				t.clientsMutex.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Publish implements detect.Publisher. Snapshots arriving faster than
// the rate limit are dropped; clients always get the freshest state on
// the next send.
func (t *WebSocketPublisher) Publish(s detect.State) error {
	now := time.Now()
	if now.Sub(t.lastSend) < t.minSendInterval {
		return nil
	}
	t.lastSend = now

	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}

	t.clientsMutex.Lock()
	for client := range t.clients {
		if err := client.WriteMessage(websocket.TextMessage, payload); err != nil {
			client.Close()
			delete(t.clients, client)
		}
	}
	t.clientsMutex.Unlock()

	return nil
}

// Close disconnects all clients and shuts the server down. Idempotent.
func (t *WebSocketPublisher) Close() error {
	t.clientsMutex.Lock()
	for client := range t.clients {
		client.Close()
		delete(t.clients, client)
	}
	t.clientsMutex.Unlock()

	return t.server.Close()
}
