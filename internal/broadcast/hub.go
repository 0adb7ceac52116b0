// Package broadcast streams viewport change notifications as JSON to
// connected WebSocket clients.
package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/philipparndt/landmarker/internal/dispatch"
	"github.com/philipparndt/landmarker/pkg/landmark"
)

const (
	queueSize    = 64
	writeTimeout = 2 * time.Second
)

// Message is the JSON sent to clients
type Message struct {
	Type      string          `json:"type"`
	Time      time.Time       `json:"time"`
	Set       json.RawMessage `json:"set,omitempty"`
	Landmarks []Landmark      `json:"landmarks,omitempty"`
	Batch     *bool           `json:"batch,omitempty"`
}

// Landmark identifies one landmark and its position
type Landmark struct {
	Group string      `json:"group"`
	Index int         `json:"index"`
	Point *[3]float64 `json:"point"`
}

// Hub fans messages out to all connected clients
type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    []byte

	queue chan []byte
}

// NewHub creates a hub. Run must be called to deliver messages.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
		queue:   make(chan []byte, queueSize),
	}
}

// Attach subscribes the hub to every event of d. current returns the set
// being edited and may be nil. It keeps the snapshot replayed to new
// clients in step with events that only carry single landmarks.
func (h *Hub) Attach(d *dispatch.Dispatcher, current func() *landmark.Set) {
	d.OnAny(func(e dispatch.Event) {
		msg, err := NewMessage(e)
		if err != nil {
			h.logger.Error().Err(err).Str("event", e.Name).Msg("failed to encode event")
			return
		}
		h.Publish(msg)

		if msg.Set != nil || current == nil {
			return
		}
		switch {
		case e.Name == dispatch.LandmarksChanged && !d.IsBatchRenderEnabled(),
			e.Name == dispatch.BatchRenderChanged && msg.Batch != nil && !*msg.Batch:
			h.remember(e.Timestamp, current())
		}
	})
}

// remember replaces the replayed snapshot without sending it
func (h *Hub) remember(at time.Time, set *landmark.Set) {
	if set == nil {
		return
	}
	data, err := json.Marshal(set)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode landmark set")
		return
	}
	encoded, err := json.Marshal(Message{Type: dispatch.LandmarksChanged, Time: at, Set: data})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal message")
		return
	}
	h.mu.Lock()
	h.last = encoded
	h.mu.Unlock()
}

// NewMessage converts an event into a message. Payloads are encoded right
// away since the landmark model is not safe for concurrent use.
func NewMessage(e dispatch.Event) (Message, error) {
	msg := Message{Type: e.Name, Time: e.Timestamp}
	switch p := e.Payload.(type) {
	case *landmark.Set:
		data, err := json.Marshal(p)
		if err != nil {
			return msg, err
		}
		msg.Set = data
	case landmark.Entry:
		msg.Landmarks = []Landmark{toLandmark(p)}
	case []landmark.Entry:
		msg.Landmarks = make([]Landmark, 0, len(p))
		for _, entry := range p {
			msg.Landmarks = append(msg.Landmarks, toLandmark(entry))
		}
	case bool:
		msg.Batch = &p
	}
	return msg, nil
}

func toLandmark(e landmark.Entry) Landmark {
	l := Landmark{Group: e.Label, Index: e.Index}
	if p, ok := e.Landmark.Point(); ok {
		arr := p.Array()
		l.Point = &arr
	}
	return l
}

// Publish queues a message. When the queue is full the message is dropped.
func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal message")
		return
	}
	if msg.Set != nil {
		h.mu.Lock()
		h.last = data
		h.mu.Unlock()
	}
	select {
	case h.queue <- data:
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("broadcast queue full, dropping message")
	}
}

// Run delivers queued messages until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case data := <-h.queue:
			h.broadcast(data)
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		_ = client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug().Err(err).Msg("websocket write error")
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// ServeHTTP upgrades the request and registers the client. The most
// recent full landmark set is sent right after connecting.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	if h.last != nil {
		_ = conn.WriteMessage(websocket.TextMessage, h.last)
	}
	h.mu.Unlock()
	h.logger.Info().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		h.logger.Info().Str("remote", r.RemoteAddr).Msg("websocket client disconnected")
	}()

	// reads only detect disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ListenAndServe serves the hub on addr until ctx is done
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info().Str("addr", addr).Msg("broadcasting landmark changes")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
