package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, time.March, 9, 7, 5, 3, 999, time.Local)

	message := NewMessage("alice", "hello", at)

	req.Equal("2024-03-09 07:05:03", message.Date)
	req.Equal("alice", message.Username)
	req.Equal("hello", message.Body)
	req.Equal(at, message.CreatedAt)
	req.NotEqual(NewMessage("alice", "hello", at).ID, message.ID)
}

func TestNewMessage_DateIsWellFormed(t *testing.T) {
	req := require.New(t)
	message := NewMessage("", "", time.Now())
	req.Regexp(regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`), message.Date)
}
