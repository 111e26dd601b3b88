package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil/memstore"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*memstore.Store, *memstore.Recorder) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.Warehouses().Create(context.Background(), &model.Warehouse{BaseModel: model.BaseModel{ID: "w1"}, Name: "Central", IsActive: true}))
	require.NoError(t, store.Warehouses().Create(context.Background(), &model.Warehouse{BaseModel: model.BaseModel{ID: "w2"}, Name: "East", IsActive: true}))
	return store, &memstore.Recorder{}
}

func TestZoneLifecycle(t *testing.T) {
	ctx := context.Background()
	store, rec := setup(t)
	uc := usecase.NewZoneUseCase(store.Zones(), store.Warehouses(), rec, logger.NewNop())

	z, err := uc.CreateZone(ctx, &dto.ZoneInput{WarehouseID: "w1", Name: " Cold "})
	require.NoError(t, err)
	assert.Equal(t, "Cold", z.Name)
	assert.True(t, z.IsActive)

	z, err = uc.UpdateZone(ctx, z.ID, &dto.ZoneInput{WarehouseID: "w2", Name: "Cold", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "w2", z.WarehouseID)

	list, total, err := uc.ListZones(ctx, &dto.ZoneFilters{WarehouseID: "w2"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteZone(ctx, z.ID))
	_, err = uc.GetZone(ctx, z.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))

	assert.Equal(t, []model.AuditAction{model.AuditCreate, model.AuditUpdate, model.AuditDelete},
		rec.Actions(audit.EntityZone))
}

func TestZoneValidation(t *testing.T) {
	ctx := context.Background()
	store, rec := setup(t)
	uc := usecase.NewZoneUseCase(store.Zones(), store.Warehouses(), rec, logger.NewNop())

	_, err := uc.CreateZone(ctx, &dto.ZoneInput{WarehouseID: "w1", Name: ""})
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	_, err = uc.CreateZone(ctx, &dto.ZoneInput{WarehouseID: "nope", Name: "A"})
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))

	assert.Empty(t, rec.Actions(audit.EntityZone))
}

func TestDeleteZoneWithBinsConflicts(t *testing.T) {
	ctx := context.Background()
	store, rec := setup(t)
	uc := usecase.NewZoneUseCase(store.Zones(), store.Warehouses(), rec, logger.NewNop())

	z, err := uc.CreateZone(ctx, &dto.ZoneInput{WarehouseID: "w1", Name: "Dry"})
	require.NoError(t, err)
	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B1", WarehouseID: "w1", ZoneID: z.ID, IsActive: true}))

	err = uc.DeleteZone(ctx, z.ID)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	_, err = uc.GetZone(ctx, z.ID)
	assert.NoError(t, err)

	require.NoError(t, store.Bins().Delete(ctx, "B1"))
	assert.NoError(t, uc.DeleteZone(ctx, z.ID))
}
