package repositories

import (
	"context"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain"
	"time"
)

var _ contract.IMessageRepository = MessageRepository{}

// MessageRepository is the persistence boundary of relayed messages.
// Every Save acquires its own store session and releases it before returning.
type MessageRepository struct {
	store      contract.DocumentStore
	log        *slog.Logger
	collection string
	now        func() time.Time
}

func NewMessageRepository(store contract.DocumentStore, log *slog.Logger) MessageRepository {
	return MessageRepository{
		store:      store,
		log:        log,
		collection: domain.Collection,
		now:        time.Now,
	}
}

// Save stores one message record. Store failures are logged, never returned
// and never retried: the message is lost.
func (m MessageRepository) Save(ctx context.Context, username, body string) {
	session, err := m.store.Connect(ctx)
	if err != nil {
		m.log.Error("Database error", "operation", "connect", "error", err)
		return
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			m.log.Error("Database error", "operation", "close", "error", err)
		}
	}()

	message := domain.NewMessage(username, body, m.now())
	if err = session.InsertOne(ctx, m.collection, message); err != nil {
		m.log.Error("Database error", "operation", "insert",
			"collection", m.collection, "username", username, "error", err)
		return
	}
	m.log.Info("Message saved", "id", message.ID, "username", username)
}
