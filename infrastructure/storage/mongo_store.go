package storage

import (
	"context"
	"fmt"
	"message-relay/contract"
	"message-relay/domain"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ contract.DocumentStore = (*MongoStore)(nil)
	_ contract.Session       = (*mongoSession)(nil)
)

// MongoStore opens a dedicated client for every session.
// There is no pooling across sessions.
type MongoStore struct {
	uri                    string
	database               string
	serverSelectionTimeout time.Duration
}

func NewMongoStore(uri, database string, serverSelectionTimeout time.Duration) *MongoStore {
	return &MongoStore{
		uri:                    uri,
		database:               database,
		serverSelectionTimeout: serverSelectionTimeout,
	}
}

func (s *MongoStore) Connect(ctx context.Context) (contract.Session, error) {
	opts := options.Client().
		ApplyURI(s.uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	if s.serverSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(s.serverSelectionTimeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &mongoSession{client: client, database: s.database}, nil
}

type mongoSession struct {
	client   *mongo.Client
	database string
}

func (m *mongoSession) InsertOne(ctx context.Context, collection string, message domain.Message) error {
	_, err := m.client.Database(m.database).Collection(collection).InsertOne(ctx, fromMessage(message))
	return err
}

func (m *mongoSession) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
