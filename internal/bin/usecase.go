package bin

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	CreateBin(ctx context.Context, input *dto.BinInput) (*model.Bin, error)
	GetBin(ctx context.Context, code string) (*model.Bin, error)
	ListBins(ctx context.Context, filters *dto.BinFilters) ([]model.Bin, int, error)
	UpdateBin(ctx context.Context, code string, input *dto.BinInput) (*model.Bin, error)
	DeleteBin(ctx context.Context, code string) error
}
