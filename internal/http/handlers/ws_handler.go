package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/auth"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/events"
)

const (
	wsSendBuffer   = 32
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// wsClient is one socket. Writes go through send so only the writer goroutine touches the conn.
type wsClient struct {
	userID uuid.UUID
	types  map[string]struct{}
	send   chan []byte
	once   sync.Once
}

func newWSClient(userID uuid.UUID, types string) *wsClient {
	cl := &wsClient{userID: userID, send: make(chan []byte, wsSendBuffer)}
	for _, t := range strings.Split(types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			if cl.types == nil {
				cl.types = map[string]struct{}{}
			}
			cl.types[t] = struct{}{}
		}
	}
	return cl
}

func (cl *wsClient) wants(eventType string) bool {
	if cl.types == nil {
		return true
	}
	_, ok := cl.types[eventType]
	return ok
}

func (cl *wsClient) close() {
	cl.once.Do(func() { close(cl.send) })
}

type WSHub struct {
	cfg        *config.Config
	subscriber events.Subscriber
	log        *zap.Logger
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*wsClient]struct{}
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:        cfg,
		subscriber: subscriber,
		log:        log,
		clients:    make(map[uuid.UUID]map[*wsClient]struct{}),
	}
}

func (h *WSHub) Start(ctx context.Context) {
	if err := h.subscriber.Subscribe(ctx, events.Stream, h.dispatch); err != nil {
		h.log.Error("ws hub subscribe failed", zap.Error(err))
	}
}

// dispatch sends targeted events to their user and everything else to all connections.
func (h *WSHub) dispatch(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	var slow []*wsClient
	deliver := func(cl *wsClient) {
		if !cl.wants(event.Type) {
			return
		}
		select {
		case cl.send <- data:
		default:
			slow = append(slow, cl)
		}
	}

	h.mu.RLock()
	if id := event.UserID(); id != "" {
		userID, err := uuid.Parse(id)
		if err == nil {
			for cl := range h.clients[userID] {
				deliver(cl)
			}
		}
	} else {
		for _, set := range h.clients {
			for cl := range set {
				deliver(cl)
			}
		}
	}
	h.mu.RUnlock()

	for _, cl := range slow {
		h.log.Warn("ws client too slow, dropping", zap.String("user_id", cl.userID.String()))
		h.unregister(cl)
	}
}

func (h *WSHub) register(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[cl.userID]
	if !ok {
		set = map[*wsClient]struct{}{}
		h.clients[cl.userID] = set
	}
	set[cl] = struct{}{}
}

func (h *WSHub) unregister(cl *wsClient) {
	h.mu.Lock()
	if set, ok := h.clients[cl.userID]; ok {
		delete(set, cl)
		if len(set) == 0 {
			delete(h.clients, cl.userID)
		}
	}
	h.mu.Unlock()
	cl.close()
}

func (h *WSHub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// HandleWS authenticates via ?token= and optionally narrows delivery with ?types=a,b.
func (h *WSHub) HandleWS(conn *websocket.Conn) {
	claims, err := auth.ParseJWT(h.cfg.JWTSecret, conn.Query("token"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		_ = conn.Close()
		return
	}

	cl := newWSClient(claims.UserID, conn.Query("types"))
	h.register(cl)
	log := h.log.With(zap.String("user_id", cl.userID.String()))
	log.Debug("ws connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(conn, cl, log)
	}()

	// read loop keeps the connection alive until the client leaves
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(cl)
	<-done
	_ = conn.Close()
	log.Debug("ws disconnected")
}

func (h *WSHub) writeLoop(conn *websocket.Conn, cl *wsClient, log *zap.Logger) {
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-cl.send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(wsWriteTimeout))
				_ = conn.Close()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("ws write failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
