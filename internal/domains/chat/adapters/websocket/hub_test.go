package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/application"
	"github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
)

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startHub(t *testing.T) (*Hub, ports.Service, string) {
	t.Helper()
	svc := application.NewService(memory.NewRepository())
	hub := NewHub(svc)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, svc, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *ws.Conn {
	t.Helper()
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *ws.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Frame{Event: event, Data: raw}))
}

func read(t *testing.T, conn *ws.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame received
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.Clients(context.Background()) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJoinRoomReplaysHistory(t *testing.T) {
	hub, svc, url := startHub(t)
	_, err := svc.Send(context.Background(), ports.SendInput{RoomID: "room-1", SenderID: "u-1", Content: "hello"})
	require.NoError(t, err)

	conn := dial(t, url)
	waitForClients(t, hub, 1)
	send(t, conn, EventJoinRoom, "room-1")

	frame := read(t, conn)
	require.Equal(t, EventRoomHistory, frame.Event)
	var history roomHistory
	require.NoError(t, json.Unmarshal(frame.Data, &history))
	assert.Equal(t, "room-1", history.RoomID)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "hello", history.Messages[0].Content)
}

func TestSendMessageBroadcastsToEveryClient(t *testing.T) {
	hub, svc, url := startHub(t)
	alice := dial(t, url)
	bob := dial(t, url)
	waitForClients(t, hub, 2)

	send(t, alice, EventSendMessage, sendMessageData{RoomID: "room-1", SenderID: "alice", Content: "Hoa đẹp quá"})

	for _, conn := range []*ws.Conn{alice, bob} {
		frame := read(t, conn)
		require.Equal(t, EventReceivedMessage, frame.Event)
		var msg struct {
			ID      string `json:"_id"`
			Content string `json:"content"`
		}
		require.NoError(t, json.Unmarshal(frame.Data, &msg))
		assert.Equal(t, "Hoa đẹp quá", msg.Content)
		assert.NotEmpty(t, msg.ID)
	}

	history, err := svc.History(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestJoinRoomDoesNotNarrowBroadcasts(t *testing.T) {
	hub, _, url := startHub(t)
	alice := dial(t, url)
	bob := dial(t, url)
	waitForClients(t, hub, 2)

	send(t, bob, EventJoinRoom, "room-2")
	require.Equal(t, EventRoomHistory, read(t, bob).Event)

	send(t, alice, EventSendMessage, sendMessageData{RoomID: "room-1", SenderID: "alice", Content: "hello"})
	frame := read(t, bob)
	require.Equal(t, EventReceivedMessage, frame.Event)
	var msg struct {
		RoomID string `json:"roomId"`
	}
	require.NoError(t, json.Unmarshal(frame.Data, &msg))
	assert.Equal(t, "room-1", msg.RoomID)
}

func TestInvalidMessageRepliesErrorToSenderOnly(t *testing.T) {
	hub, _, url := startHub(t)
	conn := dial(t, url)
	waitForClients(t, hub, 1)

	send(t, conn, EventSendMessage, sendMessageData{RoomID: "room-1", SenderID: "u-1", Content: "   "})
	frame := read(t, conn)
	require.Equal(t, EventError, frame.Event)
	var data errorData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.False(t, data.Success)
	assert.Contains(t, data.Message, "content")
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, _, url := startHub(t)
	conn := dial(t, url)
	waitForClients(t, hub, 1)
	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestDecodeRoomID(t *testing.T) {
	assert.Equal(t, "r1", decodeRoomID(json.RawMessage(`"r1"`)))
	assert.Equal(t, "r2", decodeRoomID(json.RawMessage(`{"roomId":"r2"}`)))
	assert.Equal(t, "", decodeRoomID(json.RawMessage(`42`)))
}
