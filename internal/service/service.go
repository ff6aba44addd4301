package service

import (
	"context"
	"errors"
	"time"

	"cor_dashboard/internal/logger"
	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository"
)

var (
	ErrSystemNotFound   = errors.New("system not found")
	ErrInvalidTopology  = errors.New("invalid module configuration")
	ErrInvalidMessage   = errors.New("invalid message")
	ErrInvalidTimeRange = errors.New("invalid time range: start must be <= end")
)

// Systems exposes the fleet inventory.
type Systems interface {
	List(ctx context.Context) ([]models.System, error)
	ByRegion(ctx context.Context, query string) ([]models.SystemsByRegion, error)
	Get(ctx context.Context, serial string) (models.System, error)
	SwimLanes(ctx context.Context, serial string) ([]models.SwimLaneConfig, error)
}

// Events returns the raw per-module events of a system.
type Events interface {
	SystemEvents(ctx context.Context, req models.SystemEventsRequest) (models.SystemEventsResponse, error)
}

// Timelines builds the processed swim-lane view of a system.
type Timelines interface {
	Timeline(ctx context.Context, req TimelineRequest) (models.Timeline, error)
}

// Ingestor accepts message bundles sent by instruments.
type Ingestor interface {
	Ingest(ctx context.Context, msg models.Message) (IngestResult, error)
}

// Reference exposes the lookup data used for display names and legends.
type Reference interface {
	ReferenceData(ctx context.Context) (models.ReferenceData, error)
}

// Simulator feeds demo telemetry into the store.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Seed(ctx context.Context) error
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Systems
	Events
	Timelines
	Ingestor
	Reference
	Simulator
}

// NewService wires the repository layer into concrete services. simSeed
// fixes the simulator's random source; zero seeds from the clock.
func NewService(repos *repository.Repository, log *logger.Logger, simSeed int64) *Service {
	events := NewEventService(repos.SystemRepo, repos.EventRepo)
	ingest := NewIngestService(repos.SystemRepo, repos.EventRepo, log.Named("ingest"))

	return &Service{
		Systems:   NewSystemService(repos.SystemRepo),
		Events:    events,
		Timelines: NewTimelineService(repos.SystemRepo, repos.EventRepo, repos.ReferenceRepo, log.Named("timeline")),
		Ingestor:  ingest,
		Reference: NewReferenceService(repos.SystemRepo, repos.ReferenceRepo),
		Simulator: NewSimulatorService(repos.SystemRepo, repos.ReferenceRepo, ingest, log.Named("simulator"), simSeed),
	}
}
