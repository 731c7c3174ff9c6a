package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"message-relay/domain"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	FrontendURL string `env:"FRONTEND_URL,default=http://localhost:8080"`
	Username    string `env:"CLIENT_USERNAME,required=true"`
	LogLevel    string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run posts every line read from stdin as one message, like the web form does.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	endpoint := strings.TrimRight(config.FrontendURL, "/") + "/message"
	fmt.Printf("Connected as %s, type a message and press enter (Ctrl+D to quit)\n", config.Username)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := post(ctx, client, endpoint, domain.Payload{Username: config.Username, Message: line}, log); err != nil {
			return exitRuntime, err
		}
	}
	if err := scanner.Err(); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

func post(ctx context.Context, client *http.Client, endpoint string, payload domain.Payload, log *slog.Logger) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach front end at %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("front end answered %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	log.Debug("Message sent", "status", resp.StatusCode, "reply", string(body))
	return nil
}
