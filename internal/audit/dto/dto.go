package dto

import "github.com/fekuna/omnipos-warehouse-service/internal/model"

type AuditFilters struct {
	UserID   string
	Entity   string
	EntityID string
	Action   model.AuditAction
	Page     int
	PageSize int
}
