package main

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1 << 16
	sendBufSize       = 64
	maxMessagesPerSec = 120
	maxProbePoints    = 4096
)

// outbound is one queued websocket message.
type outbound struct {
	kind int
	data []byte
}

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	mu     sync.Mutex
	send   chan outbound
	closed bool
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan outbound, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// close ends the send queue. Later sends are dropped.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// enqueue queues a message without blocking. It reports false if the client is gone or too
// slow to keep up.
func (c *Client) enqueue(kind int, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- outbound{kind: kind, data: data}:
		return true
	default:
		return false
	}
}

// allow counts one incoming message against the per-second budget.
func (c *Client) allow(now time.Time) bool {
	if now.After(c.msgResetAt) {
		c.msgCount = 0
		c.msgResetAt = now.Add(time.Second)
	}
	c.msgCount++
	return c.msgCount <= maxMessagesPerSec
}

// ReadPump reads commands until the connection fails or the client floods it
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			return
		}
		if !c.allow(time.Now()) {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			return
		}
		c.handleMessage(message)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON text message. A message that cannot be encoded is replaced by an error
// so the client is never left waiting for a reply.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		data, _ = json.Marshal(Envelope{T: MsgError, Data: ErrorMsg{Message: err.Error()}})
	}
	c.enqueue(websocket.TextMessage, data)
}

// SendBinary sends pre-marshaled bytes as a binary message
func (c *Client) SendBinary(data []byte) {
	c.enqueue(websocket.BinaryMessage, data)
}

// SendError reports a rejected command
func (c *Client) SendError(err error) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Message: err.Error()}})
}

// Welcome sends the active settings once the driver picks the request up
func (c *Client) Welcome() {
	c.submit(func(d *Driver) {
		c.SendJSON(Envelope{T: MsgWelcome, Data: d.Settings()})
	})
}

func (c *Client) submit(cmd command) {
	if c.hub.driver == nil || !c.hub.driver.Submit(cmd) {
		log.Printf("command queue full, dropping message from %s", c.remoteAddr)
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgRelease:
		c.handleRelease(env.D)
	case MsgReset:
		c.submit(func(d *Driver) { d.Reset() })
	case MsgParams:
		c.handleParams(env.D)
	case MsgProbe:
		c.handleProbe(env.D)
	case MsgPreview:
		c.handlePreview(env.D)
	}
}

func (c *Client) handleRelease(data json.RawMessage) {
	var g GestureMsg
	if err := json.Unmarshal(data, &g); err != nil {
		return
	}
	c.submit(func(d *Driver) {
		if _, err := d.Release(g); err != nil {
			c.SendError(err)
		}
	})
}

func (c *Client) handleParams(data json.RawMessage) {
	var m ParamsMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	c.submit(func(d *Driver) {
		c.SendJSON(Envelope{T: MsgSettings, Data: d.UpdateParams(m)})
	})
}

func (c *Client) handleProbe(data json.RawMessage) {
	m := ProbeMsg{Depth: -1}
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	if len(m.Points) > maxProbePoints {
		m.Points = m.Points[:maxProbePoints]
	}
	c.submit(func(d *Driver) {
		c.SendJSON(Envelope{T: MsgField, Data: d.Probe(m)})
	})
}

func (c *Client) handlePreview(data json.RawMessage) {
	var g GestureMsg
	if err := json.Unmarshal(data, &g); err != nil {
		return
	}
	c.submit(func(d *Driver) {
		paths, err := d.Preview(g)
		if err != nil {
			c.SendError(err)
			return
		}
		c.SendJSON(Envelope{T: MsgPaths, Data: paths})
	})
}
