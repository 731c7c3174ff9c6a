package web

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain/mimetypes"
	"message-relay/errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// SentConfirmation is the body answered to every forwarded message.
	SentConfirmation = "Data sent to socket server"
	shutdownTimeout  = 5 * time.Second
)

var _ contract.Worker = (*Server)(nil)

// Server serves the static pages and forwards posted messages to the relay.
// Handlers only share the read-only route table.
type Server struct {
	log            *slog.Logger
	address        string
	webRoot        string
	forwarder      contract.Forwarder
	maxMessageSize int64
}

func NewServer(log *slog.Logger, address, webRoot string, forwarder contract.Forwarder, maxMessageSize int) *Server {
	return &Server{
		log:            log,
		address:        address,
		webRoot:        webRoot,
		forwarder:      forwarder,
		maxMessageSize: int64(maxMessageSize),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.serveAsset)
	mux.HandleFunc("POST /message", s.forwardMessage)
	mux.HandleFunc("POST /", s.unknownPost)
	return mux
}

// Run binds the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("%w: http listen on %s: %v", errors.ErrStartup, s.address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles requests on listener and shuts the HTTP server down when ctx ends.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:  s.Handler(),
		ErrorLog: slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", "address", listener.Addr().String(), "at", time.Now().UTC())
		if err := srv.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Stopping HTTP server")
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	return ctx.Err()
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	file, known := Resolve(r.URL.Path)
	content, err := os.ReadFile(filepath.Join(s.webRoot, file))
	if err != nil {
		s.log.Error("Static asset unreadable", "path", r.URL.Path, "file", file, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !known {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", string(mimetypes.ForFile(file)))
	w.WriteHeader(status)
	_, _ = w.Write(content)
}

// forwardMessage accepts only bodies of a declared length.
// A request without Content-Length reports a zero length, so the header itself is checked.
func (s *Server) forwardMessage(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength < 0 || (r.ContentLength == 0 && r.Header.Get("Content-Length") == "") {
		http.Error(w, http.StatusText(http.StatusLengthRequired), http.StatusLengthRequired)
		return
	}
	if r.ContentLength > s.maxMessageSize {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return
	}

	body := make([]byte, r.ContentLength)
	if _, err := io.ReadFull(r.Body, body); err != nil {
		s.log.Error("Reading message body failed", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := s.forwarder.Forward(r.Context(), body); err != nil {
		s.log.Error("Forwarding message to socket server failed", "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, SentConfirmation)
}

func (s *Server) unknownPost(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}
