package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, driverName), mock
}

func TestCountBindsNamedArgs(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM bins WHERE warehouse_id = \$1`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := Count(context.Background(), db, "SELECT count(*) FROM bins WHERE warehouse_id = :warehouse_id",
		map[string]interface{}{"warehouse_id": "w1"})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountScanError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM bins`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("not-a-number"))

	_, err := Count(context.Background(), db, "SELECT count(*) FROM bins", map[string]interface{}{})
	assert.Error(t, err)
}

func TestCountRowError(t *testing.T) {
	db, mock := newMockDB(t)
	broken := errors.New("connection reset")
	mock.ExpectQuery(`SELECT count\(\*\) FROM bins`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3).RowError(0, broken))

	_, err := Count(context.Background(), db, "SELECT count(*) FROM bins", map[string]interface{}{})
	assert.ErrorIs(t, err, broken)
}
