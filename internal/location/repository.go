package location

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// Create and Update lock the bin row for the write and return ErrBinCapacity
// when the bin cannot hold the row's quantity next to everything else in it.
type Repository interface {
	Create(ctx context.Context, location *model.ProductLocation) error
	FindByID(ctx context.Context, id string) (*model.ProductLocation, error)
	FindByProductAndBin(ctx context.Context, productID, binCode string) (*model.ProductLocation, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.ProductLocation, int, error)
	Update(ctx context.Context, location *model.ProductLocation) error
	Delete(ctx context.Context, id string) error

	// SumQuantityByBin returns the total quantity stored in a bin.
	SumQuantityByBin(ctx context.Context, binCode string) (int, error)
}
