// Package websocket relays chat frames between browsers over a single hub goroutine.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/http/mapper"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/application"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

const (
	EventJoinRoom        = "join-room"
	EventSendMessage     = "send-message"
	EventReceivedMessage = "received-message"
	EventRoomHistory     = "room-history"
	EventError           = "error-message"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 16 << 10
	sendBufferSize = 32
)

// ErrHubStopped is returned when frames are submitted after Run returned.
var ErrHubStopped = errors.New("chat hub stopped")

// Frame is the envelope of every socket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outgoing struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type sendMessageData struct {
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

type roomHistory struct {
	RoomID   string           `json:"roomId"`
	Messages []mapper.Message `json:"messages"`
}

type errorData struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type direct struct {
	client  *client
	payload []byte
}

// Hub owns the set of connected clients. Only the Run goroutine touches it.
type Hub struct {
	service  ports.Service
	logger   *slog.Logger
	upgrader ws.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	direct     chan direct
	count      chan chan int
	done       chan struct{}

	clients map[*client]struct{}
}

type Option func(*Hub)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithAllowedOrigins restricts the upgrade to the given origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) {
		allowed := map[string]struct{}{}
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" && o != "*" {
				allowed[strings.TrimRight(o, "/")] = struct{}{}
			}
		}
		if len(allowed) == 0 {
			return
		}
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			_, ok := allowed[strings.TrimRight(r.Header.Get("Origin"), "/")]
			return ok
		}
	}
}

func NewHub(service ports.Service, opts ...Option) *Hub {
	h := &Hub{
		service: service,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan direct, 64),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		clients:    map[*client]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Run serialises registration and fan-out until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case payload := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, payload)
			}
		case d := <-h.direct:
			if _, ok := h.clients[d.client]; ok {
				h.deliver(d.client, d.payload)
			}
		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// deliver never blocks; a client with a full buffer is disconnected.
func (h *Hub) deliver(c *client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Warn("dropping slow chat client", slog.String("remote", c.remote))
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}

// Clients reports the number of connected sockets.
func (h *Hub) Clients(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ctx.Done():
		return 0
	}
}

// ServeHTTP upgrades the request and starts the connection pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize), remote: r.RemoteAddr}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(context.WithoutCancel(r.Context()))
}

func (h *Hub) handle(ctx context.Context, c *client, frame Frame) {
	switch frame.Event {
	case EventJoinRoom:
		roomID := decodeRoomID(frame.Data)
		history, err := h.service.History(ctx, roomID)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.logger.DebugContext(ctx, "chat room joined", slog.String("room.id", roomID), slog.String("remote", c.remote))
		h.reply(c, EventRoomHistory, roomHistory{RoomID: roomID, Messages: mapper.FromDomainList(history)})
	case EventSendMessage:
		var data sendMessageData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			h.replyError(c, application.ErrInvalidInput)
			return
		}
		msg, err := h.service.Send(ctx, ports.SendInput{RoomID: data.RoomID, SenderID: data.SenderID, Content: data.Content})
		if err != nil {
			h.logger.WarnContext(ctx, "chat message rejected", slog.String("room.id", data.RoomID), slog.String("error", err.Error()))
			h.replyError(c, err)
			return
		}
		encoded, err := json.Marshal(outgoing{Event: EventReceivedMessage, Data: mapper.FromDomain(msg)})
		if err != nil {
			h.replyError(c, err)
			return
		}
		select {
		case h.broadcast <- encoded:
		case <-h.done:
		}
	default:
		h.replyError(c, errors.New("unknown event "+frame.Event))
	}
}

func (h *Hub) reply(c *client, event string, data any) {
	encoded, err := json.Marshal(outgoing{Event: event, Data: data})
	if err != nil {
		h.logger.Error("encode chat frame", slog.String("error", err.Error()))
		return
	}
	select {
	case h.direct <- direct{client: c, payload: encoded}:
	case <-h.done:
	}
}

func (h *Hub) replyError(c *client, err error) {
	h.reply(c, EventError, errorData{Message: err.Error(), Success: false})
}

// decodeRoomID accepts both "room" and {"roomId":"room"}.
func decodeRoomID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var obj struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.RoomID)
	}
	return ""
}

type client struct {
	hub    *Hub
	conn   *ws.Conn
	send   chan []byte
	remote string
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				c.hub.logger.Debug("chat socket closed", slog.String("remote", c.remote), slog.String("error", err.Error()))
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.hub.replyError(c, errors.New("malformed frame"))
			continue
		}
		c.hub.handle(ctx, c, frame)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(ws.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
