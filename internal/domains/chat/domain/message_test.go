package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("m-1", " room-1 ", "u-1", "  Xin chào  ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "room-1", msg.RoomID)
	assert.Equal(t, "Xin chào", msg.Content)

	cases := []struct {
		name                  string
		room, sender, content string
		want                  error
	}{
		{"missing room", "", "u-1", "hi", ErrMissingRoom},
		{"missing sender", "r", "", "hi", ErrMissingSender},
		{"blank content", "r", "u-1", "   ", ErrEmptyContent},
		{"too long", "r", "u-1", strings.Repeat("á", MaxContentLength+1), ErrContentTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMessage("m", tc.room, tc.sender, tc.content, time.Now())
			require.ErrorIs(t, err, tc.want)
		})
	}
}
