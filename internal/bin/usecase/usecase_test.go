package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteBin(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	store := memstore.New()
	rec := &memstore.Recorder{}
	uc := usecase.NewBinUseCase(store.Bins(), store.Warehouses(), nil, store.Locations(), rec, logger.NewNop())

	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B1", WarehouseID: "w1", ZoneID: "z1", IsActive: true}))
	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B2", WarehouseID: "w1", ZoneID: "z1", IsActive: true}))
	require.NoError(t, store.Locations().Create(ctx, &model.ProductLocation{ID: "l1", ProductID: "p1", BinCode: "B1", Quantity: 4, AssignedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Locations().Create(ctx, &model.ProductLocation{ID: "l2", ProductID: "p1", BinCode: "B2", Quantity: 0, AssignedAt: now, UpdatedAt: now}))

	t.Run("bin holding stock is kept", func(t *testing.T) {
		err := uc.DeleteBin(ctx, "B1")
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

		b, err := uc.GetBin(ctx, "B1")
		require.NoError(t, err)
		assert.Equal(t, "B1", b.Code)
	})

	t.Run("empty bin goes with its locations", func(t *testing.T) {
		require.NoError(t, uc.DeleteBin(ctx, "B2"))

		_, err := uc.GetBin(ctx, "B2")
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
		l, err := store.Locations().FindByID(ctx, "l2")
		require.NoError(t, err)
		assert.Nil(t, l)
	})

	t.Run("unknown bin", func(t *testing.T) {
		err := uc.DeleteBin(ctx, "B404")
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})

	assert.Equal(t, []model.AuditAction{model.AuditDelete}, rec.Actions(audit.EntityBin))
}
