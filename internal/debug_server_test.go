package internal

import (
	"context"
	"log/slog"
	"message-relay/domain"
	"message-relay/infrastructure/storage"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestDebugServer_Lists_Messages_And_Stats(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	store := storage.NewBadgerStore(db, domain.Database, slog.Default())
	ctx := context.Background()
	session, err := store.Connect(ctx)
	req.NoError(err)
	req.NoError(session.InsertOne(ctx, domain.Collection, domain.NewMessage("alice", "hello <world>", time.Now())))
	req.NoError(session.Close(ctx))

	stats := func() map[string]any { return map[string]any{"messages_total": 1} }
	handler := NewDebugServer(slog.Default(), 0, store, stats).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "alice")
	req.Contains(rec.Body.String(), "hello &lt;world&gt;")
	req.Contains(rec.Body.String(), "messages_total")
}
