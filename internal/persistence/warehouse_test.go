package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/pkg/logger"
)

func newTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	w, err := NewWarehouse(db, DialectSQLite, "", logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.EnsureTable(context.Background()))
	return w
}

func countRows(t *testing.T, w *Warehouse) int {
	t.Helper()
	var n int
	require.NoError(t, w.db.QueryRow(`SELECT COUNT(*) FROM "event_summary"`).Scan(&n))
	return n
}

func TestWarehouseMirrorStoresRecord(t *testing.T) {
	w := newTestWarehouse(t)
	rec := model.EventRecord{
		ID:         "rec-1",
		Name:       "A",
		Type:       "s-connect",
		SubType:    "HELP",
		Count:      25,
		Date:       "2024-06-01",
		City:       "Chennai",
		RecordedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	require.NoError(t, w.Mirror(context.Background(), rec))
	// Retried deliveries of the same record are ignored.
	require.NoError(t, w.Mirror(context.Background(), rec))

	var (
		typ, subType, city string
		count              int
	)
	err := w.db.QueryRow(`SELECT "type", "s_connect_type", "city", "count" FROM "event_summary" WHERE "id" = ?`, "rec-1").
		Scan(&typ, &subType, &city, &count)
	require.NoError(t, err)
	assert.Equal(t, "s-connect", typ)
	assert.Equal(t, "HELP", subType)
	assert.Equal(t, "Chennai", city)
	assert.Equal(t, 25, count)
	assert.Equal(t, 1, countRows(t, w))
}

func TestWarehouseInsertSkipsInvalidRowsAndIgnoresExtraKeys(t *testing.T) {
	w := newTestWarehouse(t)

	inserted, err := w.Insert(context.Background(), []Row{
		{"id": "ok-1", "type": "Yoga", "count": float64(3), "extra": "ignored"},
		{"type": "Yoga"},
		{"id": "bad-count", "type": "Yoga", "count": "three"},
		{"id": "bad-type", "type": ""},
		{"id": "ok-2", "type": "Youth"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 2, countRows(t, w))
}

func TestWarehouseMirrorRejectsInvalidRecordPermanently(t *testing.T) {
	w := newTestWarehouse(t)

	err := w.Mirror(context.Background(), model.EventRecord{ID: "rec-1"})
	require.Error(t, err)
	var permanent *backoff.PermanentError
	assert.True(t, errors.As(err, &permanent))
	assert.ErrorIs(t, err, errInvalidRow)
}

func TestNewWarehouseValidatesTableName(t *testing.T) {
	_, err := NewWarehouse(nil, DialectSQLite, "events; DROP TABLE x", logger.NewNop())
	assert.Error(t, err)
}

func TestOpenWarehouseRejectsUnknownScheme(t *testing.T) {
	_, err := OpenWarehouse("postgres://localhost/db", "", logger.NewNop())
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"plain", "mysql://user:pass@db:3306/events", "user:pass@tcp(db:3306)/events"},
		{"with options", "mysql://user:pass@db:3306/events?parseTime=true", "user:pass@tcp(db:3306)/events?parseTime=true"},
		{"at sign in password", "mysql://user:p%40ss@db:3306/events", "user:p@ss@tcp(db:3306)/events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mysqlDSN(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			cfg, err := mysql.ParseDSN(got)
			require.NoError(t, err)
			assert.Equal(t, "db:3306", cfg.Addr)
			assert.Equal(t, "events", cfg.DBName)
		})
	}

	got, err := mysqlDSN("mysql://user:p%40ss@db:3306/events")
	require.NoError(t, err)
	cfg, err := mysql.ParseDSN(got)
	require.NoError(t, err)
	assert.Equal(t, "p@ss", cfg.Passwd)

	for _, bad := range []string{"mysql://nohost", "mysql://user:pass@db:3306/", "mysql://db:3306/events?parseTime=maybe"} {
		_, err := mysqlDSN(bad)
		assert.Error(t, err, bad)
	}
}

func TestRowFromRecord(t *testing.T) {
	row, err := RowFromRecord(model.EventRecord{ID: "rec-1", Type: "Yoga", Count: 7})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", row["id"])
	assert.Equal(t, float64(7), row["count"])
}
