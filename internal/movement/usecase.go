package movement

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
)

type UseCase interface {
	RecordMovement(ctx context.Context, input *dto.MovementInput) (*model.StockMovement, error)
	GetMovement(ctx context.Context, id string) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	UpdateMovement(ctx context.Context, id string, input *dto.MovementInput) (*model.StockMovement, error)
	DeleteMovement(ctx context.Context, movementType model.MovementType, id string) error
}

// Locker serialises writers of one (product, warehouse) pair across instances.
// *cache.RedisClient satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

const (
	EventMovementRecorded  = "StockMovementRecorded"
	EventMovementUpdated   = "StockMovementUpdated"
	EventMovementDeleted   = "StockMovementDeleted"
	EventTransferCompleted = "TransferCompleted"

	TransferCodePrefix = "TRF-"
)
