package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
)

const (
	UpdatePrefix = "user_updates:"
	// BroadcastChannel carries trip changes every connected family member sees.
	BroadcastChannel = "family_updates"
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type tokenParser interface {
	ParseAccessToken(tokenStr string) (*middleware.Claims, error)
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans Redis pub/sub updates out to open websockets. One subscription
// exists per connected user, plus one shared BroadcastChannel subscription.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	cancelFuncs map[uuid.UUID]context.CancelFunc
	redisClient *redis.Client
	tokens      tokenParser
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewHub(redisClient *redis.Client, tokens tokenParser) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		connections: make(map[uuid.UUID][]*client),
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		redisClient: redisClient,
		tokens:      tokens,
		ctx:         ctx,
		cancel:      cancel,
	}
	if redisClient != nil {
		go h.listen(ctx, BroadcastChannel, h.broadcastAll)
	}
	return h
}

// HandleWebSocket authenticates with ?token=<access token> and upgrades.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.ParseAccessToken(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{conn: conn}
	h.register(claims.UserID, c)

	go func() {
		defer h.unregister(claims.UserID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[userID] = append(h.connections[userID], c)
	if len(h.connections[userID]) == 1 {
		ctx, cancel := context.WithCancel(h.ctx)
		h.cancelFuncs[userID] = cancel
		go h.subscribe(ctx, userID)
	}
	log.Debug("websocket connected", "user", userID, "total", len(h.connections[userID]))
}

func (h *Hub) unregister(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[userID]) == 0 {
		delete(h.connections, userID)
		if cancel, ok := h.cancelFuncs[userID]; ok {
			cancel()
			delete(h.cancelFuncs, userID)
		}
	}
	log.Debug("websocket disconnected", "user", userID)
}

func (h *Hub) subscribe(ctx context.Context, userID uuid.UUID) {
	h.listen(ctx, UpdatePrefix+userID.String(), func(data []byte) {
		h.broadcast(userID, data)
	})
}

func (h *Hub) listen(ctx context.Context, channel string, deliver func([]byte)) {
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			deliver([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	conns := append([]*client(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(data); err != nil {
			log.Debug("websocket write failed", "user", userID, "err", err)
		}
	}
}

func (h *Hub) broadcastAll(data []byte) {
	h.mu.RLock()
	users := make([]uuid.UUID, 0, len(h.connections))
	for userID := range h.connections {
		users = append(users, userID)
	}
	h.mu.RUnlock()

	for _, userID := range users {
		h.broadcast(userID, data)
	}
}

// Connected reports how many sockets userID has open.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

// Shutdown stops all subscriptions and closes every socket.
func (h *Hub) Shutdown() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.connections {
		for _, c := range conns {
			c.mu.Lock()
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			c.mu.Unlock()
			c.conn.Close()
		}
		delete(h.connections, userID)
	}
	h.cancelFuncs = make(map[uuid.UUID]context.CancelFunc)
}
