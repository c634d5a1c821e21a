// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petram44/praesidio/internal/logging"
	"github.com/petram44/praesidio/internal/metrics"
	"github.com/petram44/praesidio/internal/models"
)

// Message types for the alert stream.
const (
	MessageTypeAlert       = "alert"
	MessageTypeAlertUpdate = "alert_update"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message is the envelope for every frame sent to stream clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// AlertUpdate is the payload for lifecycle transitions on an existing alert.
type AlertUpdate struct {
	AlertID   string    `json:"alert_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Status    string    `json:"status"`
	Severity  string    `json:"severity"`
	Pattern   string    `json:"pattern,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Config tunes the stream hub.
type Config struct {
	// ClientBuffer is the per-client send buffer. A client that falls this
	// many messages behind is disconnected.
	ClientBuffer int `json:"client_buffer"`

	// MaxClients caps concurrent stream connections.
	MaxClients int `json:"max_clients"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		ClientBuffer: 64,
		MaxClients:   256,
	}
}

// Hub tracks connected stream clients and fans alert traffic out to them.
type Hub struct {
	cfg        Config
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// now is replaceable in tests.
	now func() time.Time
}

// NewHub creates a stream hub.
func NewHub(cfg Config) *Hub {
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 64
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 256
	}
	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		now:        time.Now,
	}
}

// Serve runs the hub loop until the context is canceled. Lifecycle events
// take priority over broadcasts so client state is settled before messages
// fan out; Go's select picks randomly when several channels are ready.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.register(client)

		case client := <-h.Unregister:
			h.unregister(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements fmt.Stringer for supervision logs.
func (h *Hub) String() string {
	return "alert-stream-hub"
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	if len(h.clients) >= h.cfg.MaxClients {
		h.mu.Unlock()
		close(client.send)
		metrics.WSErrors.WithLabelValues("max_clients").Inc()
		logging.Warn().
			Str("component", "alert-stream").
			Int("max_clients", h.cfg.MaxClients).
			Msg("Stream client rejected, connection cap reached")
		return
	}
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("component", "alert-stream").Int("total_clients", total).Msg("Stream client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Str("component", "alert-stream").Int("total_clients", total).Msg("Stream client disconnected")
}

// broadcastToClients fans a message out in client ID order. Iterating the
// map directly would deliver in random order run to run.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().
			Str("component", "alert-stream").
			Uint64("client_id", client.id).
			Msg("Stream client too slow, disconnecting")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "alert-stream").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("Stream hub stopped")
}

// BroadcastAlert queues a new alert for all connected clients. Never blocks;
// the message is dropped when the broadcast queue is full.
func (h *Hub) BroadcastAlert(alert *models.SecurityAlert) {
	if alert == nil {
		return
	}
	h.enqueue(Message{Type: MessageTypeAlert, Data: alert})
}

// BroadcastTransition queues a lifecycle transition. New alerts go out as
// full alert messages; later transitions as compact updates.
func (h *Hub) BroadcastTransition(alert *models.SecurityAlert, action, actor string) {
	if alert == nil {
		return
	}
	if action == "created" {
		h.BroadcastAlert(alert)
		return
	}
	h.enqueue(Message{
		Type: MessageTypeAlertUpdate,
		Data: AlertUpdate{
			AlertID:   alert.ID,
			Action:    action,
			Actor:     actor,
			Status:    string(alert.Status),
			Severity:  string(alert.Severity),
			Pattern:   alert.Pattern,
			Timestamp: h.now(),
		},
	})
}

// Hook adapts the hub to the alert registry's transition hook. The returned
// function never blocks, so it is safe inside the registry lock.
func (h *Hub) Hook() func(alert *models.SecurityAlert, action, actor string) {
	return h.BroadcastTransition
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		logging.Warn().
			Str("component", "alert-stream").
			Str("message_type", message.Type).
			Msg("Broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
