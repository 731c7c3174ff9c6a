package storage

import (
	"context"
	"message-relay/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Mongo_Connect_Invalid_URI(t *testing.T) {
	req := require.New(t)
	store := NewMongoStore("not-a-mongo-uri", domain.Database, 100*time.Millisecond)

	_, err := store.Connect(context.Background())
	req.Error(err)
}

func Test_Mongo_Insert_Unreachable_Server(t *testing.T) {
	req := require.New(t)
	// Nothing listens on port 1, server selection fails fast
	store := NewMongoStore("mongodb://127.0.0.1:1/?directConnection=true", domain.Database, 200*time.Millisecond)
	ctx := context.Background()

	session, err := store.Connect(ctx)
	req.NoError(err)
	defer func() { _ = session.Close(ctx) }()

	err = session.InsertOne(ctx, domain.Collection, domain.NewMessage("alice", "hello", time.Now()))
	req.Error(err)
}
