package stock

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
)

type UseCase interface {
	GetStatus(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error)
	ListStatuses(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error)
	// Evaluate reads the current status of a pair and raises alerts for it.
	Evaluate(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error)
	Recompute(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error)
}
