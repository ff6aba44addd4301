package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cor_dashboard/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const insertEventSQL = `
		INSERT INTO module_events (id, system_serial, module_serial, event_code, occurred_at, execution_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

// Append stores a module's events in one transaction. The full event is kept
// as JSON so undeclared fields come back on List.
func (r *EventSQLite) Append(ctx context.Context, systemSerial, moduleSerial string, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append for %q: %w", moduleSerial, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		return fmt.Errorf("prepare insert event: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", e.EventCode, err)
		}

		var execID *string
		if e.ExecutionID != "" {
			execID = &e.ExecutionID
		}

		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			systemSerial,
			moduleSerial,
			string(e.EventCode),
			formatTimestamp(e.OccurredAt),
			execID,
			string(payload),
		); err != nil {
			return fmt.Errorf("insert %s event for %q: %w", e.EventCode, moduleSerial, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append for %q: %w", moduleSerial, err)
	}
	return nil
}

// List returns a module's events within [from, to] (inclusive), ordered ASC.
// A zero bound leaves that side open. Events sharing a timestamp keep their
// insertion order.
func (r *EventSQLite) List(ctx context.Context, moduleSerial string, from, to time.Time) ([]models.Event, error) {
	conds := []string{"module_serial = ?"}
	args := []any{moduleSerial}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTimestamp(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTimestamp(to))
	}

	q := `SELECT payload FROM module_events WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY occurred_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select events for %q: %w", moduleSerial, err)
	}
	defer rows.Close()

	out := make([]models.Event, 0, 64)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev models.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
