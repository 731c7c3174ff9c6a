package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"message-relay/domain"
	"message-relay/infrastructure/storage"
	"message-relay/mocks"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Save_Inserts_And_Releases_Session(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDocumentStore(ctrl)
	session := mocks.NewMockSession(ctrl)
	at := time.Date(2024, time.May, 1, 10, 20, 30, 0, time.Local)

	var inserted domain.Message
	gomock.InOrder(
		store.EXPECT().Connect(gomock.Any()).Return(session, nil),
		session.EXPECT().InsertOne(gomock.Any(), domain.Collection, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, message domain.Message) error {
				inserted = message
				return nil
			}),
		session.EXPECT().Close(gomock.Any()).Return(nil),
	)

	repository := NewMessageRepository(store, slog.Default())
	repository.now = func() time.Time { return at }
	repository.Save(context.Background(), "alice", "hello world")

	req.Equal("alice", inserted.Username)
	req.Equal("hello world", inserted.Body)
	req.Equal("2024-05-01 10:20:30", inserted.Date)
}

func Test_Save_Connect_Failure_Skips_Release(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDocumentStore(ctrl)

	// Given a store that can't be reached
	store.EXPECT().Connect(gomock.Any()).Return(nil, fmt.Errorf("connection refused"))

	// Then no session is used nor closed, and Save doesn't panic
	NewMessageRepository(store, slog.Default()).Save(context.Background(), "bob", "lost")
}

func Test_Save_Insert_Failure_Still_Releases_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDocumentStore(ctrl)
	session := mocks.NewMockSession(ctrl)

	gomock.InOrder(
		store.EXPECT().Connect(gomock.Any()).Return(session, nil),
		session.EXPECT().InsertOne(gomock.Any(), domain.Collection, gomock.Any()).
			Return(fmt.Errorf("duplicate key")),
		session.EXPECT().Close(gomock.Any()).Return(nil),
	)

	NewMessageRepository(store, slog.Default()).Save(context.Background(), "carol", "hi")
}

func Test_Save_Close_Failure_Is_Swallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDocumentStore(ctrl)
	session := mocks.NewMockSession(ctrl)

	store.EXPECT().Connect(gomock.Any()).Return(session, nil)
	session.EXPECT().InsertOne(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	session.EXPECT().Close(gomock.Any()).Return(fmt.Errorf("disconnect failed"))

	NewMessageRepository(store, slog.Default()).Save(context.Background(), "dave", "bye")
}

func Test_Save_With_Badger(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	store := storage.NewBadgerStore(db, domain.Database, slog.Default())
	repository := NewMessageRepository(store, slog.Default())
	repository.Save(context.Background(), "alice", "hello world")
	repository.Save(context.Background(), "", "")

	fetched, _, err := store.Find(domain.Collection, nil, 0)
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_Save_With_Closed_Badger_Does_Not_Panic(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	req.NoError(db.Close())

	store := storage.NewBadgerStore(db, domain.Database, slog.Default())
	req.NotPanics(func() {
		NewMessageRepository(store, slog.Default()).Save(context.Background(), "alice", "hello")
	})
}
