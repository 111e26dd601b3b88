package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone"
)

type binUseCase struct {
	repo       bin.Repository
	warehouses warehouse.Repository
	zones      zone.Repository
	locations  location.Repository
	audit      audit.Recorder
	logger     logger.ZapLogger
}

func NewBinUseCase(
	repo bin.Repository,
	warehouses warehouse.Repository,
	zones zone.Repository,
	locations location.Repository,
	auditor audit.Recorder,
	log logger.ZapLogger,
) bin.UseCase {
	return &binUseCase{
		repo:       repo,
		warehouses: warehouses,
		zones:      zones,
		locations:  locations,
		audit:      auditor,
		logger:     log,
	}
}

func (uc *binUseCase) validate(ctx context.Context, input *dto.BinInput) error {
	if input.Capacity < 0 {
		return apperror.Validation("capacity must not be negative")
	}

	w, err := uc.warehouses.FindByID(ctx, input.WarehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return apperror.NotFound("warehouse")
	}

	z, err := uc.zones.FindByID(ctx, input.ZoneID)
	if err != nil {
		return err
	}
	if z == nil {
		return apperror.NotFound("zone")
	}
	if z.WarehouseID != input.WarehouseID {
		return apperror.Validation("zone %s does not belong to warehouse %s", z.ID, input.WarehouseID)
	}
	return nil
}

func (uc *binUseCase) CreateBin(ctx context.Context, input *dto.BinInput) (*model.Bin, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperror.Validation("bin code is required")
	}
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("bin %s already exists", code)
	}

	now := time.Now().UTC()
	b := &model.Bin{
		Code:        code,
		WarehouseID: input.WarehouseID,
		ZoneID:      input.ZoneID,
		Capacity:    input.Capacity,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityBin, b.Code, b)
	return b, nil
}

func (uc *binUseCase) GetBin(ctx context.Context, code string) (*model.Bin, error) {
	b, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NotFound("bin")
	}
	return b, nil
}

func (uc *binUseCase) ListBins(ctx context.Context, filters *dto.BinFilters) ([]model.Bin, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *binUseCase) UpdateBin(ctx context.Context, code string, input *dto.BinInput) (*model.Bin, error) {
	b, err := uc.GetBin(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	stored, err := uc.locations.SumQuantityByBin(ctx, code)
	if err != nil {
		return nil, err
	}
	if input.WarehouseID != b.WarehouseID && stored > 0 {
		return nil, apperror.Conflict("bin %s holds stock and cannot change warehouse", code)
	}
	if input.Capacity > 0 && stored > input.Capacity {
		return nil, apperror.Conflict("bin %s holds %d unit(s), above capacity %d", code, stored, input.Capacity)
	}

	b.WarehouseID = input.WarehouseID
	b.ZoneID = input.ZoneID
	b.Capacity = input.Capacity
	b.IsActive = input.IsActive
	b.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityBin, b.Code, b)
	return b, nil
}

// DeleteBin refuses to drop a bin that still holds stock. Empty location rows
// go with it.
func (uc *binUseCase) DeleteBin(ctx context.Context, code string) error {
	if _, err := uc.GetBin(ctx, code); err != nil {
		return err
	}

	stored, err := uc.locations.SumQuantityByBin(ctx, code)
	if err != nil {
		return err
	}
	if stored > 0 {
		return apperror.Conflict("bin %s still holds %d unit(s)", code, stored)
	}

	if err := uc.repo.Delete(ctx, code); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityBin, code, nil)
	return nil
}
