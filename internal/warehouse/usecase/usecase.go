package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/user"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse/dto"
	"github.com/google/uuid"
)

type warehouseUseCase struct {
	repo   warehouse.Repository
	users  user.Repository
	audit  audit.Recorder
	logger logger.ZapLogger
}

func NewWarehouseUseCase(repo warehouse.Repository, users user.Repository, auditor audit.Recorder, log logger.ZapLogger) warehouse.UseCase {
	return &warehouseUseCase{
		repo:   repo,
		users:  users,
		audit:  auditor,
		logger: log,
	}
}

func (uc *warehouseUseCase) validate(ctx context.Context, input *dto.WarehouseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.Validation("warehouse name is required")
	}
	if input.ManagerID == "" {
		return nil
	}
	manager, err := uc.users.FindByID(ctx, input.ManagerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return apperror.NotFound("manager")
	}
	return nil
}

func (uc *warehouseUseCase) CreateWarehouse(ctx context.Context, input *dto.WarehouseInput) (*model.Warehouse, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	w := &model.Warehouse{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		IsActive:  true,
	}
	apply(w, input)

	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityWarehouse, w.ID, w)
	return w, nil
}

func (uc *warehouseUseCase) GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error) {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("warehouse")
	}
	return w, nil
}

func (uc *warehouseUseCase) ListWarehouses(ctx context.Context, filters *dto.WarehouseFilters) ([]model.Warehouse, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *warehouseUseCase) UpdateWarehouse(ctx context.Context, id string, input *dto.WarehouseInput) (*model.Warehouse, error) {
	w, err := uc.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	apply(w, input)
	w.IsActive = input.IsActive
	w.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityWarehouse, w.ID, w)
	return w, nil
}

func (uc *warehouseUseCase) DeleteWarehouse(ctx context.Context, id string) error {
	if _, err := uc.GetWarehouse(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityWarehouse, id, nil)
	return nil
}

func apply(w *model.Warehouse, input *dto.WarehouseInput) {
	w.Name = strings.TrimSpace(input.Name)
	w.Country = input.Country
	w.Province = input.Province
	w.District = input.District
	w.Address = input.Address
	w.ManagerID = nil
	if input.ManagerID != "" {
		id := input.ManagerID
		w.ManagerID = &id
	}
}
