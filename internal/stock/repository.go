package stock

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
)

type Repository interface {
	Get(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error)
	FindAll(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error)
	// Recompute rebuilds the counter of one pair from its movement history.
	Recompute(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error)
}
