package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// RunContinuous runs collection cycles on a fixed interval until ctx is
// cancelled, starting with an immediate cycle. A single cycle's failure
// never terminates the loop. Cleanup (releasing the store's connection
// pool) always runs on the way out.
func (p *Pipeline) RunContinuous(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = p.interval
	}

	defer func() {
		slog.Info("cleaning up pipeline resources")
		if err := p.store.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	slog.Info("starting continuous weather data collection", "interval", interval)

	logResult(p.RunOnce(ctx, nil))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("pipeline stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			logResult(p.RunOnce(ctx, nil))
		}
	}
}

func logResult(res RunResult) {
	attrs := []any{
		"cycle_id", res.CycleID,
		"status", res.Status,
		"requested", res.CitiesRequested,
		"received", res.CitiesReceived,
		"validated", res.RecordsValidated,
		"stored", res.RecordsStored,
		"uploaded", res.RecordsUploaded,
	}
	if res.Err != "" {
		attrs = append(attrs, "error", res.Err)
	}

	switch res.Status {
	case StatusSuccess:
		slog.Info("collection cycle finished", attrs...)
	default:
		slog.Error("collection cycle finished", attrs...)
	}
}
