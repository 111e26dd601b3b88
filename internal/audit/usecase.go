package audit

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/audit/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// Recorder appends audit entries. Failures are logged, never returned.
type Recorder interface {
	Record(ctx context.Context, action model.AuditAction, entity, entityID string, payload interface{})
}

type UseCase interface {
	Recorder
	GetEntry(ctx context.Context, id string) (*model.AuditLog, error)
	ListEntries(ctx context.Context, filters *dto.AuditFilters) ([]model.AuditLog, int, error)
}

// Entity names used in audit entries.
const (
	EntityCategory        = "category"
	EntityProduct         = "product"
	EntityWarehouse       = "warehouse"
	EntityZone            = "zone"
	EntityBin             = "bin"
	EntityProductLocation = "product_location"
	EntityUser            = "user"
	EntityAlert           = "alert"
	EntityStockMovement   = "stock_movement"
	EntityStockStatus     = "stock_status"
)
