package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
	"github.com/google/uuid"
)

type zoneUseCase struct {
	repo       zone.Repository
	warehouses warehouse.Repository
	audit      audit.Recorder
	logger     logger.ZapLogger
}

func NewZoneUseCase(repo zone.Repository, warehouses warehouse.Repository, auditor audit.Recorder, log logger.ZapLogger) zone.UseCase {
	return &zoneUseCase{
		repo:       repo,
		warehouses: warehouses,
		audit:      auditor,
		logger:     log,
	}
}

func (uc *zoneUseCase) validate(ctx context.Context, input *dto.ZoneInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.Validation("zone name is required")
	}
	w, err := uc.warehouses.FindByID(ctx, input.WarehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return apperror.NotFound("warehouse")
	}
	return nil
}

func (uc *zoneUseCase) CreateZone(ctx context.Context, input *dto.ZoneInput) (*model.Zone, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	z := &model.Zone{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		WarehouseID: input.WarehouseID,
		Name:        strings.TrimSpace(input.Name),
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, z); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityZone, z.ID, z)
	return z, nil
}

func (uc *zoneUseCase) GetZone(ctx context.Context, id string) (*model.Zone, error) {
	z, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return nil, apperror.NotFound("zone")
	}
	return z, nil
}

func (uc *zoneUseCase) ListZones(ctx context.Context, filters *dto.ZoneFilters) ([]model.Zone, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *zoneUseCase) UpdateZone(ctx context.Context, id string, input *dto.ZoneInput) (*model.Zone, error) {
	z, err := uc.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	z.WarehouseID = input.WarehouseID
	z.Name = strings.TrimSpace(input.Name)
	z.IsActive = input.IsActive
	z.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, z); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityZone, z.ID, z)
	return z, nil
}

func (uc *zoneUseCase) DeleteZone(ctx context.Context, id string) error {
	if _, err := uc.GetZone(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityZone, id, nil)
	return nil
}
