package sse

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message written to a stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Crafter   string      `json:"crafter,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Filter selects the events a client receives. Empty fields match everything.
type Filter struct {
	Types   map[string]bool
	Crafter string
}

// NewFilter builds a filter from a comma separated type list and a crafter id
func NewFilter(types, crafter string) Filter {
	f := Filter{Crafter: strings.TrimSpace(crafter)}
	for _, t := range strings.Split(types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			if f.Types == nil {
				f.Types = make(map[string]bool)
			}
			f.Types[t] = true
		}
	}
	return f
}

// Match reports whether evt passes the filter. Events without a crafter
// reach crafter-filtered clients.
func (f Filter) Match(evt Event) bool {
	if f.Types != nil && !f.Types[evt.Type] {
		return false
	}
	return f.Crafter == "" || evt.Crafter == "" || evt.Crafter == f.Crafter
}

// Client is one connected stream
type Client struct {
	ID     string
	Events chan Event
	Filter Filter
}

// Hub fans events out to connected clients
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	dropped    atomic.Int64
}

// NewHub creates a hub; call Start before registering clients
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start runs the broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the broadcast loop and closes every client channel. Safe to
// call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, c := range h.clients {
			close(c.Events)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.Events)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				if !c.Filter.Match(evt) {
					continue
				}
				select {
				case c.Events <- evt:
				default:
					h.dropped.Add(1)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client. It returns false once the hub is stopped.
func (h *Hub) Register(f Filter) (*Client, bool) {
	c := &Client{
		ID:     uuid.New().String(),
		Events: make(chan Event, ClientEventBuffer),
		Filter: f,
	}
	select {
	case <-h.shutdown:
		return nil, false
	default:
	}
	select {
	case h.register <- c:
		return c, true
	case <-h.shutdown:
		return nil, false
	}
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(id string) {
	select {
	case h.unregister <- id:
	case <-h.shutdown:
	}
}

// Broadcast queues evt for delivery. A full queue drops the event and
// reports false.
func (h *Hub) Broadcast(evt Event) bool {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().Unix()
	}
	select {
	case h.broadcast <- evt:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Format renders evt in text/event-stream framing
func Format(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stream event: %w", err)
	}
	var b strings.Builder
	if evt.ID != "" {
		b.WriteString("id: " + evt.ID + "\n")
	}
	b.WriteString("event: " + evt.Type + "\n")
	b.WriteString("data: ")
	b.Write(data)
	b.WriteString("\n\n")
	return []byte(b.String()), nil
}
