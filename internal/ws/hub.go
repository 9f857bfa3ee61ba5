// Package ws publishes flushed frames to browsers over websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

const writeWait = 200 * time.Millisecond

// Message is what every client receives, once on connect and then after
// each flush.
type Message struct {
	T       int64                        `json:"t"`
	FrameID uint64                       `json:"frame_id"`
	Duty    [tlc5947.NumChannels]uint16 `json:"duty"`
}

// Hub tracks connected clients and the last frame sent.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    Message
	start   time.Time
	log     zerolog.Logger
	up      websocket.Upgrader
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: map[*websocket.Conn]bool{},
		start:   time.Now(),
		log:     log,
		up:      websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// HandleFrames upgrades the request and keeps the client until it goes away.
func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws upgrade")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	b, _ := json.Marshal(h.last)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, b)
	h.mu.Unlock()
	if err != nil {
		h.drop(conn)
		return
	}

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast records frame and sends it to every client.
func (h *Hub) Broadcast(frame [tlc5947.NumChannels]pwm.Duty) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last.T = time.Now().UnixNano()
	h.last.FrameID++
	for i, d := range frame {
		h.last.Duty[i] = d.Value()
	}
	b, _ := json.Marshal(h.last)
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Msg("write frame")
		}
	}
}

// HandleHealth reports the frame counter and uptime as JSON.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frame_id": h.last.FrameID,
		"uptime_s": time.Since(h.start).Seconds(),
		"clients":  len(h.clients),
		"channels": tlc5947.NumChannels,
	}
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}
