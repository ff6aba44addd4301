package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cor_dashboard/internal/models"
)

type SystemSQLite struct {
	db *sql.DB
}

func NewSystemSQLite(db *sql.DB) *SystemSQLite {
	return &SystemSQLite{db: db}
}

var _ SystemRepo = (*SystemSQLite)(nil)

const (
	selectSystemsSQL = `
		SELECT serial_number, customer_name, region, site_timezone, software_version, atlas_key, last_event_at, last_alert_at
		FROM systems ORDER BY serial_number ASC
	`

	selectSystemSQL = `
		SELECT serial_number, customer_name, region, site_timezone, software_version, atlas_key, last_event_at, last_alert_at
		FROM systems WHERE serial_number = ?
	`

	selectAllModulesSQL = `
		SELECT system_serial, module_name, module_side, module_serial
		FROM system_modules ORDER BY system_serial ASC, position ASC
	`

	selectModulesSQL = `
		SELECT system_serial, module_name, module_side, module_serial
		FROM system_modules WHERE system_serial = ? ORDER BY position ASC
	`

	upsertSystemSQL = `
		INSERT INTO systems (serial_number, customer_name, region, site_timezone, software_version, atlas_key, last_event_at, last_alert_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(serial_number) DO UPDATE SET
			customer_name=excluded.customer_name,
			region=excluded.region,
			site_timezone=excluded.site_timezone,
			software_version=excluded.software_version,
			atlas_key=excluded.atlas_key,
			last_event_at=excluded.last_event_at,
			last_alert_at=excluded.last_alert_at
	`

	deleteModulesSQL = `DELETE FROM system_modules WHERE system_serial = ?`

	insertModuleSQL = `
		INSERT INTO system_modules (module_serial, system_serial, module_name, module_side, position)
		VALUES (?, ?, ?, ?, ?)
	`

	// stored values are fixed width, so a text comparison keeps the later instant
	touchLastEventSQL = `
		UPDATE systems SET last_event_at = ?
		WHERE serial_number = ? AND (last_event_at IS NULL OR last_event_at < ?)
	`

	touchLastAlertSQL = `
		UPDATE systems SET last_alert_at = ?
		WHERE serial_number = ? AND (last_alert_at IS NULL OR last_alert_at < ?)
	`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSystem(row rowScanner) (models.System, error) {
	var (
		s                    models.System
		region               string
		lastEvent, lastAlert sql.NullString
	)
	if err := row.Scan(&s.SerialNumber, &s.CustomerName, &region, &s.SiteTimezone,
		&s.SoftwareVersion, &s.AtlasKey, &lastEvent, &lastAlert); err != nil {
		return models.System{}, err
	}
	s.Region = models.Region(region)

	var err error
	if s.LastEventTime, err = nullTimestamp(lastEvent); err != nil {
		return models.System{}, fmt.Errorf("parse last_event_at for %q: %w", s.SerialNumber, err)
	}
	if s.LastAlertTime, err = nullTimestamp(lastAlert); err != nil {
		return models.System{}, fmt.Errorf("parse last_alert_at for %q: %w", s.SerialNumber, err)
	}
	s.ModuleConfiguration = []models.ModuleSlot{}
	return s, nil
}

func nullTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func timestampArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}

// List returns every system ordered by serial number, modules attached.
func (r *SystemSQLite) List(ctx context.Context) ([]models.System, error) {
	rows, err := r.db.QueryContext(ctx, selectSystemsSQL)
	if err != nil {
		return nil, fmt.Errorf("select systems: %w", err)
	}
	defer rows.Close()

	out := make([]models.System, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		s, err := scanSystem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan system: %w", err)
		}
		index[s.SerialNumber] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate systems: %w", err)
	}

	modRows, err := r.db.QueryContext(ctx, selectAllModulesSQL)
	if err != nil {
		return nil, fmt.Errorf("select modules: %w", err)
	}
	defer modRows.Close()

	for modRows.Next() {
		system, slot, err := scanSlot(modRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[system]; ok {
			out[i].ModuleConfiguration = append(out[i].ModuleConfiguration, slot)
		}
	}
	if err := modRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}
	return out, nil
}

// Get fetches one system. Returns (nil, nil) if not found.
func (r *SystemSQLite) Get(ctx context.Context, serial string) (*models.System, error) {
	s, err := scanSystem(r.db.QueryRowContext(ctx, selectSystemSQL, serial))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select system %q: %w", serial, err)
	}

	rows, err := r.db.QueryContext(ctx, selectModulesSQL, serial)
	if err != nil {
		return nil, fmt.Errorf("select modules for %q: %w", serial, err)
	}
	defer rows.Close()

	for rows.Next() {
		_, slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		s.ModuleConfiguration = append(s.ModuleConfiguration, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules for %q: %w", serial, err)
	}
	return &s, nil
}

func scanSlot(row rowScanner) (string, models.ModuleSlot, error) {
	var system, name, side, serial string
	if err := row.Scan(&system, &name, &side, &serial); err != nil {
		return "", models.ModuleSlot{}, fmt.Errorf("scan module: %w", err)
	}
	return system, models.ModuleSlot{
		ModuleName:         models.ModuleName(name),
		ModuleSide:         models.ModuleSide(side),
		ModuleSerialNumber: serial,
	}, nil
}

// Upsert writes the system row and replaces its module configuration.
func (r *SystemSQLite) Upsert(ctx context.Context, s models.System) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert %q: %w", s.SerialNumber, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, upsertSystemSQL,
		s.SerialNumber, s.CustomerName, string(s.Region), s.SiteTimezone,
		s.SoftwareVersion, s.AtlasKey, timestampArg(s.LastEventTime), timestampArg(s.LastAlertTime),
	); err != nil {
		return fmt.Errorf("upsert system %q: %w", s.SerialNumber, err)
	}

	if _, err := tx.ExecContext(ctx, deleteModulesSQL, s.SerialNumber); err != nil {
		return fmt.Errorf("clear modules for %q: %w", s.SerialNumber, err)
	}
	for i, m := range s.ModuleConfiguration {
		if _, err := tx.ExecContext(ctx, insertModuleSQL,
			m.ModuleSerialNumber, s.SerialNumber, string(m.ModuleName), string(m.ModuleSide), i,
		); err != nil {
			return fmt.Errorf("insert module %q: %w", m.ModuleSerialNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert %q: %w", s.SerialNumber, err)
	}
	return nil
}

// TouchActivity moves the last event/alert times forward. Nil times and
// times older than the stored ones are ignored.
func (r *SystemSQLite) TouchActivity(ctx context.Context, serial string, lastEvent, lastAlert *time.Time) error {
	if lastEvent != nil {
		ts := formatTimestamp(*lastEvent)
		if _, err := r.db.ExecContext(ctx, touchLastEventSQL, ts, serial, ts); err != nil {
			return fmt.Errorf("touch last event for %q: %w", serial, err)
		}
	}
	if lastAlert != nil {
		ts := formatTimestamp(*lastAlert)
		if _, err := r.db.ExecContext(ctx, touchLastAlertSQL, ts, serial, ts); err != nil {
			return fmt.Errorf("touch last alert for %q: %w", serial, err)
		}
	}
	return nil
}
