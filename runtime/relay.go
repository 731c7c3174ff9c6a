// Package runtime hosts the relay accept loop.
// It dispatches connections without containing decoding or storage rules.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"message-relay/contract"
	appErrors "message-relay/errors"
	"message-relay/runtime/workers"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

const acceptBackoff = 50 * time.Millisecond

var _ contract.Worker = (*RelayServer)(nil)

// RelayServer owns the listening socket and hands every accepted
// connection to its own ConnectionWorker goroutine.
type RelayServer struct {
	log            *slog.Logger
	address        string
	repository     contract.IMessageRepository
	maxMessageSize int
	slots          *semaphore.Weighted

	running  atomic.Bool
	active   atomic.Int64
	accepted atomic.Int64
	messages atomic.Int64
}

// NewRelayServer builds a relay listening on address.
// maxConnections bounds concurrently running workers, 0 means unbounded.
func NewRelayServer(log *slog.Logger, address string,
	repository contract.IMessageRepository,
	maxMessageSize, maxConnections int) *RelayServer {
	s := &RelayServer{
		log:            log,
		address:        address,
		repository:     repository,
		maxMessageSize: maxMessageSize,
	}
	if maxConnections > 0 {
		s.slots = semaphore.NewWeighted(int64(maxConnections))
	}
	return s
}

// Run binds the configured address and serves until ctx is canceled.
func (s *RelayServer) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("%w: relay listen on %s: %v", appErrors.ErrStartup, s.address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the accept loop on listener and closes it on every exit path.
// Canceling ctx closes the listener, so a blocked Accept returns at once.
// Dispatched workers are not awaited and outlive the loop.
func (s *RelayServer) Serve(ctx context.Context, listener net.Listener) error {
	defer func() { _ = listener.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	s.running.Store(true)
	defer s.running.Store(false)
	s.log.Info("Starting socket server", "address", listener.Addr().String(), "at", time.Now().UTC())

	// Workers keep going once dispatched, whatever happens to the accept loop
	workerCtx := context.WithoutCancel(ctx)

	for ctx.Err() == nil {
		// A saturated relay stops accepting until a worker frees its slot
		if s.slots != nil {
			if err := s.slots.Acquire(ctx, 1); err != nil {
				break
			}
		}

		conn, err := listener.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.log.Warn("Temporary accept error, retrying", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(acceptBackoff):
				}
				continue
			}
			s.log.Error("Accept failed, stopping socket server", "error", err)
			return fmt.Errorf("relay accept: %w", err)
		}

		s.accepted.Add(1)
		s.active.Add(1)
		go s.dispatch(workerCtx, conn)
	}

	s.log.Info("Socket server stopped", "address", listener.Addr().String())
	return nil
}

// dispatch runs one worker and isolates its panics from the rest of the relay.
func (s *RelayServer) dispatch(ctx context.Context, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Connection worker crashed", "error", appErrors.ErrWorkerPanic, "panic", r)
		}
		s.active.Add(-1)
		s.release()
	}()
	worker := workers.NewConnectionWorker(conn, s.repository, s.log, s.maxMessageSize,
		func() { s.messages.Add(1) })
	_ = worker.Run(ctx)
}

func (s *RelayServer) release() {
	if s.slots != nil {
		s.slots.Release(1)
	}
}

// Running reports whether the accept loop is live.
func (s *RelayServer) Running() bool {
	return s.running.Load()
}

func (s *RelayServer) Stats() map[string]any {
	return map[string]any{
		"running":            s.running.Load(),
		"active_connections": s.active.Load(),
		"accepted_total":     s.accepted.Load(),
		"messages_total":     s.messages.Load(),
	}
}
