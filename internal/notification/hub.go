package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)


type client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub pushes events to every connected staff dashboard.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	origins  map[string]bool
	upgrader websocket.Upgrader
}

// NewHub accepts browser connections from the same host or from one of
// allowedOrigins. Clients that send no Origin header are not browsers and
// are let through; they still need a valid token.
func NewHub(allowedOrigins ...string) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		origins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			h.origins[o] = true
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.origins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	log.Printf("ws_origin_rejected origin=%q host=%q", origin, r.Host)
	return false
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Connected returns the number of live dashboard connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify broadcasts e. Slow clients miss the event instead of blocking.
func (h *Hub) Notify(_ context.Context, e Event) (Result, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return Result{}, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	res := Result{Success: true}
	for c := range h.clients {
		select {
		case c.send <- data:
			res.SentTo = append(res.SentTo, "ws:"+strconv.FormatInt(c.userID, 10))
		default:
		}
	}
	return res, nil
}

// ServeWS upgrades an authenticated request and streams events until the
// client goes away.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%v", c.GetInt64("user_id"), err)
		return
	}

	cl := &client{
		userID: c.GetInt64("user_id"),
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	h.register(cl)

	go h.writePump(cl)
	h.readPump(cl)
}

// readPump only drains control frames; dashboards never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%d error=%v", c.userID, err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
