package main

import (
	"context"
	"fmt"
	"message-relay/domain"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

// Config drives the load generator from the environment.
type Config struct {
	RelayAddr   string `envconfig:"RELAY_ADDR" default:"localhost:9000"`
	Clients     int    `envconfig:"TESTER_CLIENTS" default:"50"`
	Messages    int    `envconfig:"TESTER_MESSAGES" default:"10"`
	Parallelism int    `envconfig:"TESTER_PARALLELISM" default:"16"`
	Colours     bool   `envconfig:"TESTER_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	start := time.Now()
	var sent, failed atomic.Int64

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(config.Parallelism)
	for c := 0; c < config.Clients; c++ {
		g.Go(func() error {
			n, err := sendAll(ctx, config.RelayAddr, c, config.Messages)
			sent.Add(int64(n))
			if err != nil {
				failed.Add(1)
				printf(config.Colours, color.FgRed, "client %d: %v\n", c, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	printf(config.Colours, color.FgGreen, "%d messages sent by %d clients in %v (%d clients failed)\n",
		sent.Load(), config.Clients, elapsed.Round(time.Millisecond), failed.Load())
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

// sendAll writes every message of one client on a single connection.
func sendAll(ctx context.Context, address string, client, messages int) (int, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	for i := 0; i < messages; i++ {
		payload := domain.Payload{
			Username: fmt.Sprintf("tester-%d", client),
			Message:  fmt.Sprintf("message %d from client %d", i, client),
		}
		if _, err = conn.Write(payload.Frame()); err != nil {
			return i, err
		}
	}
	return messages, nil
}

func printf(colours bool, fg color.Color, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if colours {
		text = color.New(fg).Render(text)
	}
	fmt.Print(text)
}
