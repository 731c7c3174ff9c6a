// Package domain contains core concepts of the message relay.
// This file defines the Message record persisted for every relayed payload.
// Messages are immutable once built.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the second precision wall clock format of a stored record.
	DateLayout = "2006-01-02 15:04:05"
	// Database and Collection locate every stored record.
	Database   = "db-messages"
	Collection = "messages"
)

// Message represents an immutable stored message.
type Message struct {
	ID        uuid.UUID // unique identifier
	Date      string
	Username  string
	Body      string
	CreatedAt time.Time
}

func NewMessage(username, body string, at time.Time) Message {
	local := at.Local()
	return Message{
		ID:        uuid.New(),
		Date:      local.Format(DateLayout),
		Username:  username,
		Body:      body,
		CreatedAt: local,
	}
}
