package ws

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Hub fans messages out to every connected client. A client whose send
// buffer is full is dropped. Once Run returns, Register and Unregister no
// longer block.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopped    bool
	mutex      sync.RWMutex
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug().Int("total_clients", total).Msg("ws connected")

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

// stop releases blocked callers, then closes every client, including ones
// still queued for registration.
func (h *Hub) stop() {
	close(h.done)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.stopped = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.drainRegister()
}

func (h *Hub) drainRegister() {
	for {
		select {
		case c := <-h.register:
			close(c.send)
		default:
			return
		}
	}
}

func (h *Hub) isStopped() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.stopped
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug().Int("total_clients", total).Msg("ws disconnected")
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	if h.isStopped() {
		close(client.send)
		return
	}
	select {
	case h.register <- client:
		// Run may have stopped between the check and the send.
		if h.isStopped() {
			h.drainRegister()
		}
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Str("reason", "buffer_full").Msg("ws broadcast dropped")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
