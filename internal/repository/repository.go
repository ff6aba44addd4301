package repository

import (
	"context"
	"database/sql"
	"time"

	"cor_dashboard/internal/models"
)

type SystemRepo interface {
	List(ctx context.Context) ([]models.System, error)
	Get(ctx context.Context, serial string) (*models.System, error)
	Upsert(ctx context.Context, s models.System) error
	TouchActivity(ctx context.Context, serial string, lastEvent, lastAlert *time.Time) error
}

type EventRepo interface {
	Append(ctx context.Context, systemSerial, moduleSerial string, events []models.Event) error
	List(ctx context.Context, moduleSerial string, from, to time.Time) ([]models.Event, error)
}

type ReferenceRepo interface {
	Assays(ctx context.Context) ([]models.AssayInfo, error)
	EventTypes(ctx context.Context) ([]models.EventTypeInfo, error)
	UpsertAssay(ctx context.Context, a models.AssayInfo) error
	UpsertEventType(ctx context.Context, et models.EventTypeInfo) error
}

type Repository struct {
	SystemRepo    SystemRepo
	EventRepo     EventRepo
	ReferenceRepo ReferenceRepo
}

// NewRepository wires the SQLite-backed repositories. Callers that archive
// events elsewhere replace EventRepo afterwards.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		SystemRepo:    NewSystemSQLite(db),
		EventRepo:     NewEventSQLite(db),
		ReferenceRepo: NewReferenceSQLite(db),
	}
}

// timestampLayout is fixed width so stored values sort the same as the instants.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}
