package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
	"go.uber.org/zap"
)

type stockUseCase struct {
	repo      stock.Repository
	alerts    alert.Generator
	audit     audit.Recorder
	threshold int
	logger    logger.ZapLogger
}

// NewStockUseCase builds the projector. alerts may be nil, threshold <= 0
// falls back to stock.DefaultLowThreshold.
func NewStockUseCase(repo stock.Repository, alerts alert.Generator, auditor audit.Recorder, threshold int, log logger.ZapLogger) stock.UseCase {
	if threshold <= 0 {
		threshold = stock.DefaultLowThreshold
	}
	return &stockUseCase{
		repo:      repo,
		alerts:    alerts,
		audit:     auditor,
		threshold: threshold,
		logger:    log,
	}
}

func (uc *stockUseCase) GetStatus(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	s, err := uc.repo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &model.StockStatus{
			WarehouseID: warehouseID,
			ProductID:   productID,
			UpdatedAt:   time.Now().UTC(),
		}
	}
	s.StockLevel = stock.Level(s.Quantity, uc.threshold)
	return s, nil
}

func (uc *stockUseCase) ListStatuses(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error) {
	switch filters.Level {
	case "", model.StockLevelIn, model.StockLevelLow, model.StockLevelOut:
	default:
		return nil, 0, apperror.Validation("unknown stock level %q", filters.Level)
	}
	filters.Threshold = uc.threshold

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].StockLevel = stock.Level(items[i].Quantity, uc.threshold)
	}
	return items, count, nil
}

func (uc *stockUseCase) Evaluate(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	s, err := uc.GetStatus(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	uc.raiseAlerts(ctx, s)
	return s, nil
}

func (uc *stockUseCase) Recompute(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	s, err := uc.repo.Recompute(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	s.StockLevel = stock.Level(s.Quantity, uc.threshold)

	uc.audit.Record(ctx, model.AuditRecompute, audit.EntityStockStatus, productID+":"+warehouseID, s)
	uc.raiseAlerts(ctx, s)
	return s, nil
}

func (uc *stockUseCase) raiseAlerts(ctx context.Context, s *model.StockStatus) {
	if uc.alerts == nil {
		return
	}
	if _, err := uc.alerts.Evaluate(ctx, s); err != nil {
		uc.logger.Error("failed to evaluate stock alerts",
			zap.String("product_id", s.ProductID),
			zap.String("warehouse_id", s.WarehouseID),
			zap.Error(err),
		)
	}
}
