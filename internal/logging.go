package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mama165/sdk-go/logs"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds the console logger at level and appends every ERROR
// record as one structured line to logFile.
// The returned closer releases the log file.
func NewLogger(level, logFile string) (*slog.Logger, io.Closer, error) {
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", logFile, err)
	}
	console := logs.GetLoggerFromString(level)
	return newFanoutLogger(console.Handler(), file), file, nil
}

func newFanoutLogger(console slog.Handler, errorSink io.Writer) *slog.Logger {
	errorLines := slog.NewTextHandler(errorSink, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(slogmulti.Fanout(console, errorLines))
}
