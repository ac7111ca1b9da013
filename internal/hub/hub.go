// Package hub fans chart frames out to websocket subscribers, one room per
// chart, and routes their actions back to the chart.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Handler applies a client message to the chart it names. A returned error
// is reported to the sender only.
type Handler func(ctx context.Context, msg *Message) error

type room struct {
	chartID string
	clients map[string]*Client // clientID -> client
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*room // chartID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	handler    Handler
	seq        int64
}

func New(handler Handler) *Hub {
	return &Hub{
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		handler:    handler,
	}
}

// Run serves registrations until ctx is done. Every client still connected
// is closed on return.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for id, r := range h.rooms {
			for _, c := range r.clients {
				c.close()
			}
			delete(h.rooms, id)
		}
		h.mu.Unlock()
	}()
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return nil
		}
	}
}

// Register adds client to its chart's room. It returns once the welcome
// message is queued, so anything sent afterwards follows it.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
		return
	}
	select {
	case <-client.registered:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Clients returns the number of subscribers of chartID.
func (h *Hub) Clients(chartID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[chartID]; ok {
		return len(r.clients)
	}
	return 0
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	r, ok := h.rooms[client.ChartID]
	if !ok {
		r = &room{chartID: client.ChartID, clients: make(map[string]*Client)}
		h.rooms[client.ChartID] = r
	}
	r.clients[client.ClientID] = client
	count := len(r.clients)
	h.mu.Unlock()

	if msg, err := NewMessage(TypeWelcome, client.ChartID, WelcomePayload{ClientID: client.ClientID, Clients: count}); err == nil {
		client.Send(msg)
	}
	if msg, err := NewMessage(TypeJoin, client.ChartID, PresencePayload{ClientID: client.ClientID, Clients: count}); err == nil {
		h.broadcast(client.ChartID, msg, client.ClientID)
	}

	close(client.registered)

	slog.Info("client joined", "client", client.ClientID, "chart", client.ChartID)
}

func (h *Hub) removeClient(client *Client) {
	client.close()

	h.mu.Lock()
	r, ok := h.rooms[client.ChartID]
	if !ok || r.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}
	delete(r.clients, client.ClientID)
	count := len(r.clients)
	if count == 0 {
		delete(h.rooms, client.ChartID)
	}
	h.mu.Unlock()

	if msg, err := NewMessage(TypeLeave, client.ChartID, PresencePayload{ClientID: client.ClientID, Clients: count}); err == nil {
		h.broadcast(client.ChartID, msg, "")
	}

	slog.Info("client left", "client", client.ClientID, "chart", client.ChartID)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	switch msg.Type {
	case TypeAction, TypeHover:
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		h.sendError(sender, "unknown message type "+msg.Type)
		return
	}
	if h.handler == nil {
		return
	}
	if err := h.handler(ctx, msg); err != nil {
		h.sendError(sender, err.Error())
	}
}

func (h *Hub) sendError(c *Client, text string) {
	if msg, err := NewMessage(TypeError, c.ChartID, ErrorPayload{Message: text}); err == nil {
		c.Send(msg)
	}
}

// Broadcast sends msg to every subscriber of chartID.
func (h *Hub) Broadcast(chartID string, msg *Message) {
	h.broadcast(chartID, msg, "")
}

// BroadcastFrame sends a frame message carrying draw commands already
// encoded as JSON. Frames are numbered per hub.
func (h *Hub) BroadcastFrame(chartID string, frameJSON []byte) {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	h.mu.Unlock()
	h.broadcast(chartID, &Message{Type: TypeFrame, ChartID: chartID, Seq: seq, Payload: json.RawMessage(frameJSON)}, "")
}

// CloseRoom tells the subscribers of chartID that the chart is gone and
// drops them.
func (h *Hub) CloseRoom(chartID string) {
	if msg, err := NewMessage(TypeClosed, chartID, nil); err == nil {
		h.broadcast(chartID, msg, "")
	}
	h.mu.Lock()
	r, ok := h.rooms[chartID]
	delete(h.rooms, chartID)
	h.mu.Unlock()
	if !ok {
		return
	}
	for _, c := range r.clients {
		c.close()
	}
}

func (h *Hub) broadcast(chartID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	r, ok := h.rooms[chartID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	for _, c := range clients {
		c.sendRaw(data)
	}
}
