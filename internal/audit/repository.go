package audit

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/audit/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	FindByID(ctx context.Context, id string) (*model.AuditLog, error)
	FindAll(ctx context.Context, filters *dto.AuditFilters) ([]model.AuditLog, int, error)
}
