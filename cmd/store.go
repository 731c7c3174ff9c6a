package main

import (
	"context"
	"fmt"
	"log/slog"
	"message-relay/contract"
	"message-relay/domain"
	"message-relay/infrastructure/storage"
	"message-relay/internal"

	"github.com/dgraph-io/badger/v4"
)

// messageStore is the document store picked from the configuration.
// badger is nil when the remote store is used.
type messageStore struct {
	documents contract.DocumentStore
	badger    *storage.BadgerStore
	close     func()
}

func openStore(ctx context.Context, config internal.Config, log *slog.Logger) (messageStore, error) {
	if config.UseMongo() {
		log.Info("Using MongoDB document store", "database", domain.Database)
		return messageStore{
			documents: storage.NewMongoStore(config.MongoDBHost, domain.Database, config.MongoServerSelectionTimeout),
			close:     func() {},
		}, nil
	}

	db, err := badger.Open(buildBadgerOpts(ctx, config, log))
	if err != nil {
		return messageStore{}, fmt.Errorf("database opening failed: %w", err)
	}
	store := storage.NewBadgerStore(db, domain.Database, log)
	log.Info("Using BadgerDB document store", "path", config.BadgerFilepath)
	return messageStore{
		documents: store,
		badger:    store,
		close: func() {
			// Releases the directory lock and flushes buffers
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		},
	}, nil
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}
