package workers

import (
	"context"
	"log/slog"
	"message-relay/contract"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker periodically logs process health next to relay counters.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	stats          contract.StatsProvider
}

func NewTelemetryWorker(log *slog.Logger, metricInterval time.Duration, stats contract.StatsProvider) *TelemetryWorker {
	return &TelemetryWorker{log: log, metricInterval: metricInterval, stats: stats}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *TelemetryWorker) report(p *process.Process) {
	args := []any{"goroutines", runtime.NumGoroutine()}
	if mem, err := p.MemoryInfo(); err == nil {
		args = append(args, "rss_bytes", mem.RSS)
	} else {
		w.log.Warn("Failed to collect memory stats", "error", err)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		args = append(args, "cpu_percent", cpu)
	}
	if w.stats != nil {
		for k, v := range w.stats() {
			args = append(args, k, v)
		}
	}
	w.log.Info("Telemetry", args...)
}
