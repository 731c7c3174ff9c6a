package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"message-relay/contract"
	"message-relay/errors"
	"message-relay/infrastructure/web"
	"message-relay/internal"
	"message-relay/repositories"
	"message-relay/runtime"
	"message-relay/runtime/workers"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the servers lifecycle, and centralizes error reporting.
// Deferred cleanups (log file, database) run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log, logFile, err := internal.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return exitConfig, err
	}
	defer func() { _ = logFile.Close() }()

	if err = web.CheckAssets(config.WebRoot, log); err != nil {
		return exitConfig, err
	}

	// 2. Document store
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, config, log)
	if err != nil {
		return exitRuntime, err
	}
	defer store.close()

	// 3. Relay and front end
	repository := repositories.NewMessageRepository(store.documents, log)
	relay := runtime.NewRelayServer(log, config.SocketAddress(), repository,
		config.MaxMessageSize, config.MaxConnections)
	frontend := web.NewServer(log, config.HTTPAddress(), config.WebRoot,
		web.NewRelayForwarder(config.RelayAddress()), config.MaxMessageSize)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(frontend)
	for _, w := range optionalWorkers(config, log, store, relay) {
		sup.Add(w)
	}

	// 4. Serve until interrupted; the relay owns the calling goroutine
	if err = sup.Run(ctx, relay); err != nil {
		if stderrors.Is(err, errors.ErrStartup) {
			return exitConfig, err
		}
		return exitRuntime, err
	}

	log.Info("Program stopped cleanly")
	return exitOK, nil
}

func optionalWorkers(config internal.Config, log *slog.Logger, store messageStore, relay *runtime.RelayServer) []contract.Worker {
	var res []contract.Worker
	if config.MetricInterval > 0 {
		res = append(res, workers.NewTelemetryWorker(log, config.MetricInterval, relay.Stats))
	}
	if config.DebugPort > 0 && store.badger != nil {
		res = append(res, internal.NewDebugServer(log, config.DebugPort, store.badger, relay.Stats))
	}
	return res
}
