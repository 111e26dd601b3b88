package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestDeleteRejectsBinWithStock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT code FROM bins WHERE code = \$1 FOR UPDATE`).
		WithArgs("B1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM product_locations`).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(4))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "B1")

	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmptyBin(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT code FROM bins`).
		WithArgs("B2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM product_locations`).
		WithArgs("B2").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM bins WHERE code = \$1`).
		WithArgs("B2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "B2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
