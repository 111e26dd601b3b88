package location

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	CreateLocation(ctx context.Context, input *dto.LocationInput) (*model.ProductLocation, error)
	GetLocation(ctx context.Context, id string) (*model.ProductLocation, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.ProductLocation, int, error)
	UpdateLocation(ctx context.Context, id string, input *dto.LocationInput) (*model.ProductLocation, error)
	DeleteLocation(ctx context.Context, id string) error
}
