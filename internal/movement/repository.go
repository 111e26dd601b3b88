package movement

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
)

// Repository persists movements. Every write applies the given effects to the
// stock counters and bin locations in the same transaction, failing with
// ErrInsufficientStock, ErrInsufficientBinStock or ErrBinCapacity when a
// guard does not hold.
type Repository interface {
	Create(ctx context.Context, m *model.StockMovement, effects Effects) error
	FindByID(ctx context.Context, id string) (*model.StockMovement, error)
	FindAll(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	// FindTransferLeg returns the leg of the given type carrying code, nil if none.
	FindTransferLeg(ctx context.Context, code string, movementType model.MovementType) (*model.StockMovement, error)
	Update(ctx context.Context, m *model.StockMovement, effects Effects) error
	Delete(ctx context.Context, id string, effects Effects) error

	// CompleteTransfer stores in with transferStatus true, flips the OUT leg
	// and applies effects. A leg that is already completed gives ErrTransferCompleted.
	CompleteTransfer(ctx context.Context, in *model.StockMovement, outID string, effects Effects) error
}
