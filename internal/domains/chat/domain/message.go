package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength bounds a single chat message in characters.
const MaxContentLength = 2000

var (
	ErrMissingRoom    = errors.New("room id is required")
	ErrMissingSender  = errors.New("sender id is required")
	ErrEmptyContent   = errors.New("message content is required")
	ErrContentTooLong = errors.New("message content is too long")
)

// Message is one line of a support conversation.
type Message struct {
	ID        string
	RoomID    string
	SenderID  string
	Content   string
	CreatedAt time.Time
}

func NewMessage(id, roomID, senderID, content string, now time.Time) (*Message, error) {
	m := &Message{
		ID:        id,
		RoomID:    strings.TrimSpace(roomID),
		SenderID:  strings.TrimSpace(senderID),
		Content:   strings.TrimSpace(content),
		CreatedAt: now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) Validate() error {
	switch {
	case m.RoomID == "":
		return ErrMissingRoom
	case m.SenderID == "":
		return ErrMissingSender
	case m.Content == "":
		return ErrEmptyContent
	case utf8.RuneCountInString(m.Content) > MaxContentLength:
		return ErrContentTooLong
	}
	return nil
}
