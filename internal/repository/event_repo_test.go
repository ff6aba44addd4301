package repository

import (
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func TestEventAppend_Transaction(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertEventSQL))
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "COR-001", "MX-1", "assayWorkflowStart",
			"2024-05-01T08:00:00.000000000Z", "X1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "COR-001", "MX-1", "heartbeat",
			"2024-05-01T08:05:00.000000000Z", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewEventSQLite(conn).Append(ctx(t), "COR-001", "MX-1", []models.Event{
		{EventCode: models.EventAssayWorkflowStart, OccurredAt: t0, ExecutionID: "X1"},
		{EventCode: models.EventHeartbeat, OccurredAt: t0.Add(5 * time.Minute)},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventAppend_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	if err := NewEventSQLite(conn).Append(ctx(t), "COR-001", "MX-1", nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventAppend_InsertErrorRollsBack(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(insertEventSQL)).
		ExpectExec().
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = NewEventSQLite(conn).Append(ctx(t), "COR-001", "MX-1", []models.Event{
		{EventCode: models.EventHeartbeat, OccurredAt: t0},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEventList_Filters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		from, to time.Time
		query    string
		args     []driver.Value
	}{
		{
			name:  "open range",
			query: `SELECT payload FROM module_events WHERE module_serial = ? ORDER BY occurred_at ASC, rowid ASC`,
			args:  []driver.Value{"MX-1"},
		},
		{
			name:  "bounded",
			from:  t0,
			to:    t0.Add(24 * time.Hour),
			query: `SELECT payload FROM module_events WHERE module_serial = ? AND occurred_at >= ? AND occurred_at <= ? ORDER BY occurred_at ASC, rowid ASC`,
			args:  []driver.Value{"MX-1", "2024-05-01T08:00:00.000000000Z", "2024-05-02T08:00:00.000000000Z"},
		},
		{
			name:  "from only",
			from:  t0,
			query: `SELECT payload FROM module_events WHERE module_serial = ? AND occurred_at >= ? ORDER BY occurred_at ASC, rowid ASC`,
			args:  []driver.Value{"MX-1", "2024-05-01T08:00:00.000000000Z"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock new: %v", err)
			}
			defer conn.Close()

			mock.ExpectQuery(regexp.QuoteMeta(tc.query)).
				WithArgs(tc.args...).
				WillReturnRows(sqlmock.NewRows([]string{"payload"}).
					AddRow(`{"eventCode":"heartbeat","associatedDateTimeOffset":"2024-05-01T08:00:00Z","firmware":"7.1"}`))

			got, err := NewEventSQLite(conn).List(ctx(t), "MX-1", tc.from, tc.to)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != 1 || got[0].EventCode != models.EventHeartbeat || got[0].Extras["firmware"] != "7.1" {
				t.Fatalf("List = %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("mock expectations: %v", err)
			}
		})
	}
}

func TestEventList_CorruptPayload(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery(`SELECT payload FROM module_events`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{"eventCode":`))

	if _, err := NewEventSQLite(conn).List(ctx(t), "MX-1", time.Time{}, time.Time{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEventSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repo := NewEventSQLite(conn)
	offset := time.FixedZone("", -5*3600)
	in := []models.Event{
		{EventCode: models.EventAssayWorkflowEnd, OccurredAt: t0.Add(2 * time.Hour).In(offset), ExecutionID: "X1", WorkflowState: "error"},
		{EventCode: models.EventAssayWorkflowStart, OccurredAt: t0.In(offset), ExecutionID: "X1", Assay: "HPV",
			Extras: map[string]any{"rack": "R7"}},
		{EventCode: models.EventHeartbeat, OccurredAt: t0},
	}
	if err := repo.Append(ctx(t), "COR-001", "MX-1", in); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := repo.Append(ctx(t), "COR-001", "MX-2", []models.Event{{EventCode: models.EventBoot, OccurredAt: t0}}); err != nil {
		t.Fatalf("Append other module: %v", err)
	}

	got, err := repo.List(ctx(t), "MX-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// equal timestamps keep insertion order
	if got[0].EventCode != models.EventAssayWorkflowStart || got[1].EventCode != models.EventHeartbeat {
		t.Fatalf("order = %s, %s", got[0].EventCode, got[1].EventCode)
	}
	if got[0].Extras["rack"] != "R7" {
		t.Fatalf("extras lost: %+v", got[0].Extras)
	}
	if _, off := got[0].OccurredAt.Zone(); off != -5*3600 {
		t.Fatalf("offset lost: %v", got[0].OccurredAt)
	}

	window, err := repo.List(ctx(t), "MX-1", t0.Add(time.Hour), t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("List window: %v", err)
	}
	if len(window) != 1 || window[0].WorkflowState != "error" {
		t.Fatalf("window = %+v", window)
	}
}
