package main

import "sync"

const maxTotalConns = 256

// Hub tracks connected clients and fans frames out to them
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	driver     *Driver
}

// NewHub creates a new Hub. The driver is attached with SetDriver before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
	}
}

// SetDriver attaches the simulation driver commands are forwarded to
func (h *Hub) SetDriver(d *Driver) {
	h.driver = d
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
		}
	}
}

// CanAccept reports whether another connection fits
func (h *Hub) CanAccept() bool {
	return h.ClientCount() < maxTotalConns
}

// BroadcastBinary sends data to every connected client
func (h *Hub) BroadcastBinary(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendBinary(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
