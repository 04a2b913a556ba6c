// Package sse fans session events out to browsers over server-sent events.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"svw.info/pairs/internal/domain"
)

const (
	channelBuffer = 16
	heartbeat     = 30 * time.Second
)

// Client is one open event stream.
type Client struct {
	ch     chan string
	gameID string
}

// C exposes the message channel; it is closed on Unregister.
func (c *Client) C() <-chan string { return c.ch }

// Broadcaster keeps the open streams grouped by game. It implements
// ports.Observer, so a session can publish into it directly.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		clients: make(map[*Client]struct{}),
		log:     logger,
	}
}

func (b *Broadcaster) Register(gameID string) *Client {
	c := &Client{ch: make(chan string, channelBuffer), gameID: gameID}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes c and closes its channel. Calling it twice is safe.
func (b *Broadcaster) Unregister(c *Client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends data to every stream of gameID. Slow clients miss messages
// instead of stalling the sender.
func (b *Broadcaster) Broadcast(gameID, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.ch <- data:
		default:
			b.log.Debug("sse client lagging, dropped event", "game", gameID)
		}
	}
}

// Notify encodes e as JSON and broadcasts it to the event's game.
func (b *Broadcaster) Notify(e domain.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		b.log.Warn("encode event", "kind", e.Kind, "err", err)
		return
	}
	b.Broadcast(e.GameID, string(data))
}

func (b *Broadcaster) ClientCount(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for c := range b.clients {
		if c.gameID == gameID {
			n++
		}
	}
	return n
}

// Serve streams gameID's events to w until the request ends.
func (b *Broadcaster) Serve(w http.ResponseWriter, r *http.Request, gameID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	c := b.Register(gameID)
	defer b.Unregister(c)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
