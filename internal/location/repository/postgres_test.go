package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
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

func newLocation(quantity int) *model.ProductLocation {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return &model.ProductLocation{ID: "l1", ProductID: "p1", BinCode: "B1", Quantity: quantity, AssignedAt: now, UpdatedAt: now}
}

func TestCreateLocksBinBeforeSumming(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT capacity FROM bins WHERE code = \$1 FOR UPDATE`).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(50))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM product_locations WHERE bin_code = \$1 AND id <> \$2`).
		WithArgs("B1", "l1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(20))
	mock.ExpectExec(`INSERT INTO product_locations`).
		WithArgs("l1", "p1", "B1", 30, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), newLocation(30)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOverCapacityRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT capacity FROM bins WHERE code = \$1 FOR UPDATE`).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(50))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM product_locations`).
		WithArgs("B1", "l1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(40))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newLocation(11))
	assert.ErrorIs(t, err, location.ErrBinCapacity)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUnboundedBinSkipsSum(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT capacity FROM bins WHERE code = \$1 FOR UPDATE`).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(0))
	mock.ExpectExec(`UPDATE product_locations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), newLocation(10000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownBin(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT capacity FROM bins WHERE code = \$1 FOR UPDATE`).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newLocation(1))
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
