package weather

import (
	"context"
)

// Client abstracts the upstream weather provider (e.g. OpenWeatherMap).
type Client interface {
	// FetchOne fetches the current observation for a single city.
	// One timeout-bounded attempt; no internal retry.
	FetchOne(ctx context.Context, city string) (RawObservation, error)

	// FetchMany fetches cities sequentially with a fixed pacing delay
	// between calls. Failed cities are simply absent from the result.
	FetchMany(ctx context.Context, cities []string) []RawObservation

	// TestConnection performs a single lightweight probe.
	TestConnection(ctx context.Context) bool
}

// Store is the contract the persistent observation store must satisfy.
// Reads degrade to empty results on storage faults; writes propagate
// faults after rolling back the batch.
type Store interface {
	Store(ctx context.Context, records []Observation) (int, error)
	Latest(ctx context.Context, city string) []Observation
	History(ctx context.Context, city string, days int) []Observation
	Stats(ctx context.Context, city string, days int) (StatsSummary, bool)
	Close() error
}

// Sink mirrors validated observations to a cloud warehouse. Appends are
// best-effort and must tolerate duplicates across retried cycles.
type Sink interface {
	Append(ctx context.Context, records []Observation) (int, error)
}
