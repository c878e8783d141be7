package mapper

import (
	"time"

	"github.com/Apurer/flower-shop-api/internal/domains/chat/domain"
)

// Message is the wire shape shared by the socket frames and GET /messages/:roomId.
type Message struct {
	ID        string    `json:"_id"`
	RoomID    string    `json:"roomId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromDomain(m *domain.Message) Message {
	if m == nil {
		return Message{}
	}
	return Message{ID: m.ID, RoomID: m.RoomID, SenderID: m.SenderID, Content: m.Content, CreatedAt: m.CreatedAt}
}

func FromDomainList(msgs []*domain.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromDomain(m))
	}
	return out
}
