package internal

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFanoutLogger_Only_Errors_Reach_The_Sink(t *testing.T) {
	req := require.New(t)
	var console, sink bytes.Buffer
	log := newFanoutLogger(slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelDebug}), &sink)

	log.Info("Message saved", "username", "alice")
	log.Error("Database error", "operation", "insert", "error", fmt.Errorf("boom"))

	req.Contains(console.String(), "Message saved")
	req.Contains(console.String(), "Database error")

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	req.Len(lines, 1)
	req.Contains(lines[0], "level=ERROR")
	req.Contains(lines[0], `msg="Database error"`)
	req.Contains(lines[0], "operation=insert")
	req.Contains(lines[0], "time=")
}

func TestNewLogger_Appends_To_File(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "server.log")
	req.NoError(os.WriteFile(path, []byte("previous line\n"), 0o644))

	log, closer, err := NewLogger("INFO", path)
	req.NoError(err)
	log.Error("Error processing data", "error", "malformed payload")
	req.NoError(closer.Close())

	content, err := os.ReadFile(path)
	req.NoError(err)
	req.True(strings.HasPrefix(string(content), "previous line\n"))
	req.Contains(string(content), "Error processing data")
}

func TestNewLogger_Unwritable_File(t *testing.T) {
	_, _, err := NewLogger("INFO", filepath.Join(t.TempDir(), "missing", "server.log"))
	require.Error(t, err)
}
