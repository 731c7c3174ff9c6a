package storage

import (
	"fmt"
	"message-relay/domain"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageDocument is the stored shape of a message, shared by every driver.
type MessageDocument struct {
	ID       string `bson:"_id" msgpack:"_id"`
	Date     string `bson:"date" msgpack:"date"`
	Username string `bson:"username" msgpack:"username"`
	Message  string `bson:"message" msgpack:"message"`
}

func fromMessage(message domain.Message) MessageDocument {
	return MessageDocument{
		ID:       message.ID.String(),
		Date:     message.Date,
		Username: message.Username,
		Message:  message.Body,
	}
}

func toMessage(doc MessageDocument, createdAt time.Time) (domain.Message, error) {
	parsedID, err := uuid.Parse(doc.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		Date:      doc.Date,
		Username:  doc.Username,
		Body:      doc.Message,
		CreatedAt: createdAt,
	}, nil
}

// documentKey is formatted as "{database}:{collection}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision breaker if two messages
//     arrive at the same nanosecond.
func documentKey(database, collection string, message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s:%019d:%s",
		collectionPrefix(database, collection),
		message.CreatedAt.UnixNano(),
		message.ID,
	))
}

func collectionPrefix(database, collection string) string {
	return database + ":" + collection
}

// keyTime extracts the creation time from the padded timestamp segment.
func keyTime(key string) time.Time {
	parts := strings.Split(key, ":")
	if len(parts) < 4 {
		return time.Time{}
	}
	nanos, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, nanos).Local()
}
