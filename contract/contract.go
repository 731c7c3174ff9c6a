//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"message-relay/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context, foreground Worker) error
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// DocumentStore hands out a scoped session per write.
type DocumentStore interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is released by its owner with Close, whatever happened in between.
type Session interface {
	InsertOne(ctx context.Context, collection string, message domain.Message) error
	Close(ctx context.Context) error
}

// IMessageRepository persists relayed messages and never fails the caller.
type IMessageRepository interface {
	Save(ctx context.Context, username, body string)
}

// Forwarder relays an encoded form body to the relay server.
type Forwarder interface {
	Forward(ctx context.Context, body []byte) error
}

// StatsProvider exposes point-in-time counters for telemetry and debug pages.
type StatsProvider func() map[string]any
