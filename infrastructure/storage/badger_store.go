package storage

import (
	"context"
	"fmt"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain"
	"message-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ contract.DocumentStore = (*BadgerStore)(nil)
	_ contract.Session       = (*badgerSession)(nil)
)

// BadgerStore keeps documents msgpack-encoded in an embedded BadgerDB.
// The DB handle is owned by the caller; a session is one write transaction.
type BadgerStore struct {
	db       *badger.DB
	database string
	log      *slog.Logger
}

func NewBadgerStore(db *badger.DB, database string, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, database: database, log: log}
}

func (s *BadgerStore) Connect(ctx context.Context) (contract.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.db == nil || s.db.IsClosed() {
		return nil, errors.ErrStoreClosed
	}
	return &badgerSession{txn: s.db.NewTransaction(true), database: s.database}, nil
}

// Find retrieves documents of a collection newest first using a reverse prefix scan.
// Thanks to the padded timestamp in the key, documents are naturally sorted by time.
// The returned cursor can be passed back to continue after the last document.
func (s *BadgerStore) Find(collection string, cursor *string, limit int) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	prefixStr := collectionPrefix(s.database, collection) + ":"
	prefix := []byte(prefixStr)

	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible key then walk back in time
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				s.log.Debug(fmt.Sprintf("Maximum of %d documents reached", limit))
				break
			}
			item := it.Item()
			key := string(item.Key())
			lastKey = key[len(prefixStr):]
			err := item.Value(func(value []byte) error {
				var doc MessageDocument
				if err := msgpack.Unmarshal(value, &doc); err != nil {
					return err
				}
				message, err := toMessage(doc, keyTime(key))
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

type badgerSession struct {
	txn      *badger.Txn
	database string
}

func (b *badgerSession) InsertOne(_ context.Context, collection string, message domain.Message) error {
	data, err := msgpack.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err = b.txn.Set(documentKey(b.database, collection, message), data); err != nil {
		return err
	}
	return b.txn.Commit()
}

// Close discards the transaction, a no-op once it has been committed.
func (b *badgerSession) Close(_ context.Context) error {
	b.txn.Discard()
	return nil
}
