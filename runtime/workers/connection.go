package workers

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain"
	"net"
)

var _ contract.Worker = (*ConnectionWorker)(nil)

// ConnectionWorker owns one accepted relay connection for its whole life.
// Frames are newline terminated payloads, handled strictly in order.
// Nothing is shared with other workers.
type ConnectionWorker struct {
	conn           net.Conn
	repository     contract.IMessageRepository
	log            *slog.Logger
	maxMessageSize int
	onMessage      func()
}

func NewConnectionWorker(conn net.Conn,
	repository contract.IMessageRepository,
	log *slog.Logger,
	maxMessageSize int,
	onMessage func()) *ConnectionWorker {
	if maxMessageSize < domain.ChunkSize {
		maxMessageSize = domain.ChunkSize
	}
	return &ConnectionWorker{
		conn:           conn,
		repository:     repository,
		log:            log.With("peer", conn.RemoteAddr().String()),
		maxMessageSize: maxMessageSize,
		onMessage:      onMessage,
	}
}

// Run reads frames until the peer closes the connection.
// A read, size or decode error ends this connection only.
// An unterminated tail at EOF counts as a last frame.
func (w *ConnectionWorker) Run(ctx context.Context) error {
	defer w.close()
	w.log.Debug("Connection established")

	scanner := bufio.NewScanner(w.conn)
	scanner.Buffer(make([]byte, 0, domain.ChunkSize), w.maxMessageSize)
	scanner.Split(bufio.ScanLines)

	for scanner.Scan() {
		frame := scanner.Text()
		if frame == "" {
			continue
		}
		payload, err := domain.DecodePayload(frame)
		if err != nil {
			w.log.Error("Error processing data", "error", err)
			return err
		}
		w.log.Debug("Received data", "username", payload.Username, "message", payload.Message)
		if w.onMessage != nil {
			w.onMessage()
		}
		w.repository.Save(ctx, payload.Username, payload.Message)
	}

	if err := scanner.Err(); err != nil {
		w.log.Error("Error processing data", "error", err)
		return fmt.Errorf("read connection: %w", err)
	}
	w.log.Debug("Connection closed by peer")
	return nil
}

func (w *ConnectionWorker) close() {
	if err := w.conn.Close(); err != nil {
		w.log.Debug("Closing connection failed", "error", err)
	}
}
