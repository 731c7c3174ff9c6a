package internal

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain"
	"message-relay/errors"
	"message-relay/infrastructure/storage"
	"net"
	"net/http"
	"time"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

const inspectPageSize = 50

var _ contract.Worker = (*DebugServer)(nil)

type InspectRow struct {
	ID       string
	Date     string
	Username string
	Message  string
}

type PageData struct {
	Items  []InspectRow
	Next   string
	Stats  map[string]any
	Loaded string
}

// DebugServer exposes the latest stored messages and the relay counters.
type DebugServer struct {
	log     *slog.Logger
	address string
	store   *storage.BadgerStore
	stats   contract.StatsProvider
	tmpl    *template.Template
}

func NewDebugServer(log *slog.Logger, port int, store *storage.BadgerStore, stats contract.StatsProvider) *DebugServer {
	return &DebugServer{
		log:     log,
		address: fmt.Sprintf("0.0.0.0:%d", port),
		store:   store,
		stats:   stats,
		tmpl:    template.Must(template.ParseFS(templatesFS, "inspect.html")),
	}
}

func (d *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /inspect", func(w http.ResponseWriter, r *http.Request) {
		var cursor *string
		if c := r.URL.Query().Get("cursor"); c != "" {
			cursor = lo.ToPtr(c)
		}
		messages, next, err := d.store.Find(domain.Collection, cursor, inspectPageSize)
		if err != nil {
			d.log.Error("Inspect query failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data := PageData{
			Items:  lo.Map(messages, func(m domain.Message, _ int) InspectRow { return toRow(m) }),
			Stats:  make(map[string]any),
			Loaded: time.Now().Format(time.RFC822),
		}
		if len(messages) == inspectPageSize && next != nil {
			data.Next = *next
		}
		if d.stats != nil {
			data.Stats = d.stats()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = d.tmpl.Execute(w, data)
	})
	return mux
}

func (d *DebugServer) Run(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", d.address)
	if err != nil {
		return fmt.Errorf("%w: debug listen on %s: %v", errors.ErrStartup, d.address, err)
	}
	srv := &http.Server{Handler: d.Handler()}
	stop := context.AfterFunc(ctx, func() { _ = srv.Close() })
	defer stop()

	d.log.Info("Debug inspector available", "url", fmt.Sprintf("http://%s/inspect", listener.Addr()))
	if err := srv.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func toRow(m domain.Message) InspectRow {
	id := m.ID.String()
	return InspectRow{
		ID:       id[:8],
		Date:     m.Date,
		Username: m.Username,
		Message:  m.Body,
	}
}
