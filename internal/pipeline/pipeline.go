package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

// Status is the terminal outcome of one collection cycle.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed" // no data to report
	StatusError   Status = "error"  // something broke
)

// State is the orchestrator's coarse lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
)

// Cycle-level fault kinds. Callers branch on these rather than on message
// text.
var (
	// ErrConnectivity: the preflight probe failed; nothing was attempted.
	ErrConnectivity = errors.New("failed to connect to weather API")
	// ErrNoData: the fetch returned nothing for every requested city.
	ErrNoData = errors.New("no weather data received from API")
	// ErrAllInvalid: every fetched record was dropped by validation.
	ErrAllInvalid = errors.New("no valid weather data after validation")
	// ErrCycleInProgress: a concurrent cycle was refused by the
	// single-flight guard.
	ErrCycleInProgress = errors.New("collection cycle already in progress")
)

// RunResult summarizes one collection cycle. It is transient and never
// persisted.
type RunResult struct {
	CycleID          uuid.UUID `json:"cycle_id"`
	Status           Status    `json:"status"`
	CollectionTime   time.Time `json:"collection_time"`
	CitiesRequested  int       `json:"cities_requested"`
	CitiesReceived   int       `json:"cities_received"`
	RecordsValidated int       `json:"records_validated"`
	RecordsStored    int       `json:"records_stored"`
	RecordsUploaded  int       `json:"records_uploaded"`
	Err              string    `json:"error,omitempty"`
}

// PipelineStatus is a point-in-time health report, independent of the cycle
// state machine.
type PipelineStatus struct {
	Health          string                `json:"pipeline_health"` // healthy | unhealthy
	APIConnection   bool                  `json:"api_connection"`
	State           State                 `json:"state"`
	LastUpdate      *time.Time            `json:"last_update,omitempty"`
	CitiesMonitored int                   `json:"cities_monitored"`
	RecentStats     *weather.StatsSummary `json:"recent_statistics,omitempty"`
}

// Pipeline composes fetcher, validator, store, and warehouse sink into a
// collection cycle. One Pipeline serves one process; cycles never overlap.
type Pipeline struct {
	client   weather.Client
	store    weather.Store
	sink     weather.Sink // nil disables warehouse mirroring
	cities   []string
	interval time.Duration

	inFlight *atomic.Bool
	state    *atomic.String
}

// New creates a Pipeline. cities and interval are the defaults used when a
// cycle or loop is started without explicit overrides.
func New(client weather.Client, store weather.Store, sink weather.Sink, cities []string, interval time.Duration) *Pipeline {
	return &Pipeline{
		client:   client,
		store:    store,
		sink:     sink,
		cities:   cities,
		interval: interval,
		inFlight: atomic.NewBool(false),
		state:    atomic.NewString(string(StateIdle)),
	}
}

// State reports the orchestrator's current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// RunOnce performs a single collection cycle:
// preflight -> extract -> transform -> load-local -> best-effort load-remote.
// A concurrent call while a cycle is in flight terminates immediately in
// error without touching any stage.
func (p *Pipeline) RunOnce(ctx context.Context, cities []string) RunResult {
	if len(cities) == 0 {
		cities = p.cities
	}

	res := RunResult{
		CycleID:         uuid.New(),
		CollectionTime:  time.Now().UTC(),
		CitiesRequested: len(cities),
	}

	if !p.inFlight.CompareAndSwap(false, true) {
		res.Status = StatusError
		res.Err = ErrCycleInProgress.Error()
		slog.Warn("refusing overlapping collection cycle", "cycle_id", res.CycleID)
		return res
	}
	defer p.inFlight.Store(false)

	p.state.Store(string(StateCollecting))
	defer p.state.Store(string(StateIdle))

	slog.Info("starting weather data collection", "cycle_id", res.CycleID, "cities", cities)

	// Preflight: a connectivity fault aborts before any fetch or write.
	if !p.client.TestConnection(ctx) {
		res.Status = StatusError
		res.Err = ErrConnectivity.Error()
		slog.Error("preflight connectivity probe failed", "cycle_id", res.CycleID)
		return res
	}

	// Extract.
	raws := p.client.FetchMany(ctx, cities)
	res.CitiesReceived = len(raws)
	if len(raws) == 0 {
		res.Status = StatusFailed
		res.Err = ErrNoData.Error()
		slog.Warn("no weather data received", "cycle_id", res.CycleID)
		return res
	}

	// Transform.
	valid := weather.FilterValid(raws)
	res.RecordsValidated = len(valid)
	if len(valid) == 0 {
		res.Status = StatusFailed
		res.Err = ErrAllInvalid.Error()
		slog.Error("no valid weather data after validation", "cycle_id", res.CycleID)
		return res
	}

	// Load-local: the one stage whose failure is systemic.
	stored, err := p.store.Store(ctx, valid)
	if err != nil {
		res.Status = StatusError
		res.Err = err.Error()
		return res
	}
	res.RecordsStored = stored

	// Load-remote: best effort, never changes the terminal status.
	if p.sink != nil {
		uploaded, err := p.sink.Append(ctx, valid)
		if err != nil {
			slog.Error("warehouse append failed", "cycle_id", res.CycleID, "error", err)
		} else {
			res.RecordsUploaded = uploaded
		}
	}

	res.Status = StatusSuccess
	slog.Info("collection completed",
		"cycle_id", res.CycleID,
		"requested", res.CitiesRequested,
		"received", res.CitiesReceived,
		"validated", res.RecordsValidated,
		"stored", res.RecordsStored,
		"uploaded", res.RecordsUploaded,
	)
	return res
}

// Status reports derived health: healthy iff the connectivity probe
// currently succeeds. Read-query faults inside degrade to absent sections
// rather than failing the report.
func (p *Pipeline) Status(ctx context.Context) PipelineStatus {
	apiOK := p.client.TestConnection(ctx)

	status := PipelineStatus{
		Health:        "unhealthy",
		APIConnection: apiOK,
		State:         p.State(),
	}
	if apiOK {
		status.Health = "healthy"
	}

	latest := p.store.Latest(ctx, "")
	if len(latest) > 0 {
		ts := latest[0].Timestamp
		for _, rec := range latest[1:] {
			if rec.Timestamp.After(ts) {
				ts = rec.Timestamp
			}
		}
		status.LastUpdate = &ts
		status.CitiesMonitored = len(latest)
	}

	if stats, ok := p.store.Stats(ctx, "", 7); ok {
		status.RecentStats = &stats
	}

	return status
}
