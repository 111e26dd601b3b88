package zone

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
)

type Repository interface {
	Create(ctx context.Context, zone *model.Zone) error
	FindByID(ctx context.Context, id string) (*model.Zone, error)
	FindAll(ctx context.Context, filters *dto.ZoneFilters) ([]model.Zone, int, error)
	Update(ctx context.Context, zone *model.Zone) error
	Delete(ctx context.Context, id string) error
}
