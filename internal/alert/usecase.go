package alert

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// Generator raises alerts from a freshly projected stock status.
type Generator interface {
	// Evaluate returns the alert it created, or nil when none was needed.
	Evaluate(ctx context.Context, status *model.StockStatus) (*model.Alert, error)
}

type UseCase interface {
	Generator
	CreateAlert(ctx context.Context, input *dto.AlertInput) (*model.Alert, error)
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	UpdateAlert(ctx context.Context, id string, input *dto.AlertInput) (*model.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) (*model.Alert, error)
	DeleteAlert(ctx context.Context, id string) error
}

const EventAlertRaised = "AlertRaised"
