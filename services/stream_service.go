package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"macro_dashboard_backend/models"
)

const (
	maxStreamClients    = 100
	streamWriteTimeout  = 10 * time.Second
	streamPongTimeout   = 60 * time.Second
	streamPingInterval  = 30 * time.Second
	streamSendBufferLen = 16
)

// StreamMessage is one category refresh pushed to subscribed dashboards.
type StreamMessage struct {
	Category models.Category `json:"category"`
	Data     interface{}     `json:"data"`
	Time     string          `json:"time"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StreamService pushes freshly merged category data to WebSocket clients so
// dashboards don't have to poll. Losing a message is fine: the REST API
// always has the current cache.
type StreamService struct {
	mu       sync.RWMutex
	clients  map[*streamClient]bool
	shutdown chan struct{}
	once     sync.Once
	upgrader websocket.Upgrader
}

func NewStreamService() *StreamService {
	return &StreamService{
		clients:  make(map[*streamClient]bool),
		shutdown: make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Broadcast sends a category refresh to all connected clients. Clients whose
// buffers are full are dropped rather than blocking the scheduler.
func (s *StreamService) Broadcast(category models.Category, data interface{}) {
	if s == nil {
		return
	}
	msg := StreamMessage{
		Category: category,
		Data:     data,
		Time:     time.Now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshal stream message")
		return
	}

	s.mu.Lock()
	for client := range s.clients {
		select {
		case client.send <- payload:
		default:
			delete(s.clients, client)
			close(client.send)
		}
	}
	s.mu.Unlock()
}

// HandleWebSocket upgrades the connection and registers the client.
func (s *StreamService) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	atCapacity := len(s.clients) >= maxStreamClients
	s.mu.RUnlock()
	if atCapacity {
		http.Error(w, "Server at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, streamSendBufferLen),
	}

	s.mu.Lock()
	s.clients[client] = true
	count := len(s.clients)
	s.mu.Unlock()
	log.Info().Int("clients", count).Msg("stream client connected")

	go client.writePump()
	go s.readPump(client)
}

// Shutdown disconnects all clients.
func (s *StreamService) Shutdown() {
	if s == nil {
		return
	}
	s.once.Do(func() { close(s.shutdown) })

	s.mu.Lock()
	for client := range s.clients {
		close(client.send)
		client.conn.Close()
	}
	s.clients = make(map[*streamClient]bool)
	s.mu.Unlock()
}

// ClientCount returns the number of connected stream clients.
func (s *StreamService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (c *streamClient) writePump() {
	ticker := time.NewTicker(streamPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services pings and detects disconnects; the stream is
// one-way.
func (s *StreamService) readPump(c *streamClient) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		count := len(s.clients)
		s.mu.Unlock()
		c.conn.Close()
		log.Info().Int("clients", count).Msg("stream client disconnected")
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
