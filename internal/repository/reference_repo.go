package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cor_dashboard/internal/models"
)

type ReferenceSQLite struct {
	db *sql.DB
}

func NewReferenceSQLite(db *sql.DB) *ReferenceSQLite {
	return &ReferenceSQLite{db: db}
}

var _ ReferenceRepo = (*ReferenceSQLite)(nil)

const (
	selectAssaysSQL     = `SELECT assay_code, display_name, short_name FROM assays ORDER BY assay_code ASC`
	selectEventTypesSQL = `SELECT event_code, display_name, category FROM event_types ORDER BY event_code ASC`

	upsertAssaySQL = `
		INSERT INTO assays (assay_code, display_name, short_name) VALUES (?, ?, ?)
		ON CONFLICT(assay_code) DO UPDATE SET
			display_name=excluded.display_name,
			short_name=excluded.short_name
	`

	upsertEventTypeSQL = `
		INSERT INTO event_types (event_code, display_name, category) VALUES (?, ?, ?)
		ON CONFLICT(event_code) DO UPDATE SET
			display_name=excluded.display_name,
			category=excluded.category
	`
)

// Assays returns the assay catalogue ordered by code.
func (r *ReferenceSQLite) Assays(ctx context.Context) ([]models.AssayInfo, error) {
	rows, err := r.db.QueryContext(ctx, selectAssaysSQL)
	if err != nil {
		return nil, fmt.Errorf("select assays: %w", err)
	}
	defer rows.Close()

	out := make([]models.AssayInfo, 0, 8)
	for rows.Next() {
		var a models.AssayInfo
		if err := rows.Scan(&a.AssayCode, &a.DisplayName, &a.ShortName); err != nil {
			return nil, fmt.Errorf("scan assay: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assays: %w", err)
	}
	return out, nil
}

// EventTypes returns the event legend ordered by code.
func (r *ReferenceSQLite) EventTypes(ctx context.Context) ([]models.EventTypeInfo, error) {
	rows, err := r.db.QueryContext(ctx, selectEventTypesSQL)
	if err != nil {
		return nil, fmt.Errorf("select event types: %w", err)
	}
	defer rows.Close()

	out := make([]models.EventTypeInfo, 0, 16)
	for rows.Next() {
		var (
			et             models.EventTypeInfo
			code, category string
		)
		if err := rows.Scan(&code, &et.DisplayName, &category); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		et.EventCode = models.EventCode(code)
		et.Category = models.EventTypeCategory(category)
		out = append(out, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event types: %w", err)
	}
	return out, nil
}

func (r *ReferenceSQLite) UpsertAssay(ctx context.Context, a models.AssayInfo) error {
	if _, err := r.db.ExecContext(ctx, upsertAssaySQL, a.AssayCode, a.DisplayName, a.ShortName); err != nil {
		return fmt.Errorf("upsert assay %q: %w", a.AssayCode, err)
	}
	return nil
}

func (r *ReferenceSQLite) UpsertEventType(ctx context.Context, et models.EventTypeInfo) error {
	if _, err := r.db.ExecContext(ctx, upsertEventTypeSQL, string(et.EventCode), et.DisplayName, string(et.Category)); err != nil {
		return fmt.Errorf("upsert event type %q: %w", et.EventCode, err)
	}
	return nil
}
