package realtime

import (
	"strings"
	"sync"
	"time"

	"radio-cms/pkg/log"

	"github.com/gorilla/websocket"
)

const adminRoom = "admin-room"

// Client is one websocket observer.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// privileged is fixed at upgrade time.
	privileged bool

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   newClientID(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read failed", log.String("client_id", c.id), log.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(FrameError, map[string]string{"message": "malformed message"})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ClientMessage) {
	switch msg.Event {
	case MessageJoinAdmin:
		c.join(adminRoom)
	case MessageLeaveAdmin:
		c.hub.rooms.Leave(adminRoom, c)
		c.reply(FrameLeft, map[string]string{"room": adminRoom})
	case MessageJoinRoom:
		room := strings.TrimSpace(msg.Room)
		if room == "" || room == BroadcastRoom {
			c.reply(FrameError, map[string]string{"message": "room is required"})
			return
		}
		c.join(room)
	case MessageLeaveRoom:
		room := strings.TrimSpace(msg.Room)
		c.hub.rooms.Leave(room, c)
		c.reply(FrameLeft, map[string]string{"room": room})
	default:
		c.reply(FrameError, map[string]string{"message": "unknown event " + msg.Event})
	}
}

func (c *Client) join(room string) {
	if !c.hub.mayJoin(c, room) {
		c.reply(FrameError, map[string]string{"message": "not allowed to join " + room})
		return
	}
	c.hub.rooms.Join(room, c)
	c.reply(FrameJoined, map[string]string{"room": room})
}

func (c *Client) reply(event string, data any) {
	frame, err := EncodeFrame(event, data)
	if err != nil {
		return
	}
	if !c.enqueue(frame) {
		c.hub.logger.Warn("reply dropped for slow observer", log.String("client_id", c.id))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.hub.unregister(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
