package bin

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, bin *model.Bin) error
	FindByCode(ctx context.Context, code string) (*model.Bin, error)
	FindAll(ctx context.Context, filters *dto.BinFilters) ([]model.Bin, int, error)
	Update(ctx context.Context, bin *model.Bin) error
	// Delete removes the bin and its (empty) product locations.
	Delete(ctx context.Context, code string) error
}
