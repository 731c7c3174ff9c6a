package workers

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTelemetryWorker_Reports_Until_Canceled(t *testing.T) {
	req := require.New(t)
	out := &syncBuffer{}
	log := slog.New(slog.NewTextHandler(out, nil))
	stats := func() map[string]any { return map[string]any{"active_connections": int64(3)} }

	worker := NewTelemetryWorker(log, 20*time.Millisecond, stats)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := worker.Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
	req.Contains(out.String(), "msg=Telemetry")
	req.Contains(out.String(), "active_connections=3")
	req.Contains(out.String(), "rss_bytes=")
}
