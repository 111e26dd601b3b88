package zone

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
)

type UseCase interface {
	CreateZone(ctx context.Context, input *dto.ZoneInput) (*model.Zone, error)
	GetZone(ctx context.Context, id string) (*model.Zone, error)
	ListZones(ctx context.Context, filters *dto.ZoneFilters) ([]model.Zone, int, error)
	UpdateZone(ctx context.Context, id string, input *dto.ZoneInput) (*model.Zone, error)
	DeleteZone(ctx context.Context, id string) error
}
