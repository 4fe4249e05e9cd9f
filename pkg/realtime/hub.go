package realtime

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// BroadcastRoom addresses every connected client.
const BroadcastRoom = "broadcast"

type Config struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	AllowedOrigins []string
	// DefaultRooms are joined on connect.
	DefaultRooms []string
	// PrivilegedRooms are joined on connect, and can be joined later, only by
	// observers that Authorize admits.
	PrivilegedRooms []string
	// Authorize runs on the upgrading request. A nil hook admits nobody.
	Authorize func(c *gin.Context) bool
}

func (c *Config) setDefaults() {
	if c.SendBuffer <= 0 {
		c.SendBuffer = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = 60 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongTimeout {
		c.PingInterval = c.PongTimeout * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
}

// Hub owns the websocket connections of this process and delivers frames to
// rooms without ever blocking on a slow client.
type Hub struct {
	cfg      Config
	rooms    *RoomRegistry
	logger   log.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool
}

func NewHub(rooms *RoomRegistry, cfg Config, logger log.Logger, m *metrics.Metrics) *Hub {
	cfg.setDefaults()
	if rooms == nil {
		rooms = NewRoomRegistry()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	h := &Hub{
		cfg:     cfg,
		rooms:   rooms,
		logger:  logger,
		metrics: m,
		clients: make(map[string]*Client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) Rooms() *RoomRegistry {
	return h.rooms
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Handler exposes ServeWS as a gin route.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		privileged := h.cfg.Authorize != nil && h.cfg.Authorize(c)
		h.ServeWS(c.Writer, c.Request, privileged)
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, privileged bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	client := newClient(h, conn)
	client.privileged = privileged
	if !h.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// register adds c and its connect-time rooms in one step so Close never
// misses a half-registered client.
func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	for _, room := range h.cfg.DefaultRooms {
		if h.mayJoin(c, room) {
			h.rooms.Join(room, c)
		}
	}
	if c.privileged {
		for _, room := range h.cfg.PrivilegedRooms {
			h.rooms.Join(room, c)
		}
	}
	h.metrics.ObserverConnected()
	h.logger.Debug("observer connected", log.String("client_id", c.id), log.Bool("privileged", c.privileged))
	return true
}

func (h *Hub) mayJoin(c *Client, room string) bool {
	if c.privileged {
		return true
	}
	for _, restricted := range h.cfg.PrivilegedRooms {
		if room == restricted {
			return false
		}
	}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.rooms.LeaveAll(c)
	c.close()
	h.metrics.ObserverDisconnected()
	h.logger.Debug("observer disconnected", log.String("client_id", c.id))
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver enqueues frame for every member of room. A client whose buffer is
// full misses the frame.
func (h *Hub) Deliver(room string, frame []byte) (delivered, dropped int) {
	var targets []Member
	if room == BroadcastRoom {
		h.mu.RLock()
		targets = make([]Member, 0, len(h.clients))
		for _, c := range h.clients {
			targets = append(targets, c)
		}
		h.mu.RUnlock()
	} else {
		targets = h.rooms.Members(room)
	}

	label := roomLabel(room)
	for _, m := range targets {
		c, ok := m.(*Client)
		if !ok {
			continue
		}
		if c.enqueue(frame) {
			delivered++
			h.metrics.NotificationDelivered(label)
			continue
		}
		dropped++
		h.metrics.NotificationDropped(label)
		h.logger.Warn("notification dropped for slow observer",
			log.Room(room),
			log.String("client_id", c.id),
		)
	}
	return delivered, dropped
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

// roomLabel keeps per-entity rooms from exploding metric cardinality.
func roomLabel(room string) string {
	if i := strings.IndexByte(room, '-'); i > 0 && room != "admin-room" {
		return room[:i]
	}
	return room
}

func newClientID() string {
	return uuid.NewString()
}
