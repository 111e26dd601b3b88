package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Translator renders alert messages. *i18n.Translator satisfies it.
type Translator interface {
	T(lang, messageID string, data map[string]interface{}) string
}

type alertUseCase struct {
	repo       alert.Repository
	translator Translator
	publisher  broker.Publisher
	audit      audit.Recorder
	lang       string
	logger     logger.ZapLogger
}

// NewAlertUseCase wires the alert service. translator and publisher are optional.
func NewAlertUseCase(repo alert.Repository, translator Translator, publisher broker.Publisher, auditor audit.Recorder, lang string, log logger.ZapLogger) alert.UseCase {
	return &alertUseCase{
		repo:       repo,
		translator: translator,
		publisher:  publisher,
		audit:      auditor,
		lang:       lang,
		logger:     log,
	}
}

func typeForLevel(level string) (model.AlertType, bool) {
	switch level {
	case model.StockLevelOut:
		return model.AlertOutOfStock, true
	case model.StockLevelLow:
		return model.AlertLowStock, true
	}
	return "", false
}

func (uc *alertUseCase) message(t model.AlertType, s *model.StockStatus) string {
	data := map[string]interface{}{
		"ProductID":   s.ProductID,
		"WarehouseID": s.WarehouseID,
		"Quantity":    s.Quantity,
	}
	id := i18n.MsgAlertLowStock
	if t == model.AlertOutOfStock {
		id = i18n.MsgAlertOutOfStock
	}
	if uc.translator != nil {
		return uc.translator.T(uc.lang, id, data)
	}
	if t == model.AlertOutOfStock {
		return fmt.Sprintf("Out of stock: product %s in warehouse %s", s.ProductID, s.WarehouseID)
	}
	return fmt.Sprintf("Low stock: product %s has %d unit(s) left in warehouse %s", s.ProductID, s.Quantity, s.WarehouseID)
}

func (uc *alertUseCase) Evaluate(ctx context.Context, s *model.StockStatus) (*model.Alert, error) {
	t, ok := typeForLevel(s.StockLevel)
	if !ok {
		return nil, nil
	}

	open, err := uc.repo.HasOpen(ctx, s.ProductID, s.WarehouseID, t)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, nil
	}

	a := &model.Alert{
		ID:          uuid.New().String(),
		WarehouseID: s.WarehouseID,
		ProductID:   s.ProductID,
		AlertType:   t,
		Message:     uc.message(t, s),
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		// lost the race against a concurrent evaluation of the same pair
		if apperror.Is(err, apperror.CodeConflict) {
			return nil, nil
		}
		return nil, err
	}

	uc.logger.Info("stock alert raised",
		zap.String("alert_id", a.ID),
		zap.String("type", string(a.AlertType)),
		zap.String("product_id", a.ProductID),
		zap.String("warehouse_id", a.WarehouseID),
	)
	uc.audit.Record(ctx, model.AuditCreate, audit.EntityAlert, a.ID, a)

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, alert.EventAlertRaised, a.ProductID, a); err != nil {
			uc.logger.Warn("failed to publish alert event", zap.String("alert_id", a.ID), zap.Error(err))
		}
	}
	return a, nil
}

func (uc *alertUseCase) validate(input *dto.AlertInput) error {
	if !input.AlertType.Valid() {
		return apperror.Validation("unknown alert type %q", input.AlertType)
	}
	if input.ProductID == "" || input.WarehouseID == "" {
		return apperror.Validation("productId and warehouseId are required")
	}
	return nil
}

func (uc *alertUseCase) CreateAlert(ctx context.Context, input *dto.AlertInput) (*model.Alert, error) {
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &model.Alert{
		ID:             uuid.New().String(),
		WarehouseID:    input.WarehouseID,
		ProductID:      input.ProductID,
		AlertType:      input.AlertType,
		Message:        input.Message,
		IsAcknowledged: input.IsAcknowledged,
		CreatedAt:      now,
	}
	if a.IsAcknowledged {
		a.AcknowledgedAt = &now
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityAlert, a.ID, a)
	return a, nil
}

func (uc *alertUseCase) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("alert")
	}
	return a, nil
}

func (uc *alertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error) {
	if filters.AlertType != "" && !filters.AlertType.Valid() {
		return nil, 0, apperror.Validation("unknown alert type %q", filters.AlertType)
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *alertUseCase) UpdateAlert(ctx context.Context, id string, input *dto.AlertInput) (*model.Alert, error) {
	a, err := uc.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	a.WarehouseID = input.WarehouseID
	a.ProductID = input.ProductID
	a.AlertType = input.AlertType
	a.Message = input.Message
	switch {
	case input.IsAcknowledged && !a.IsAcknowledged:
		now := time.Now().UTC()
		a.AcknowledgedAt = &now
	case !input.IsAcknowledged:
		a.AcknowledgedAt = nil
	}
	a.IsAcknowledged = input.IsAcknowledged

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityAlert, a.ID, a)
	return a, nil
}

func (uc *alertUseCase) AcknowledgeAlert(ctx context.Context, id string) (*model.Alert, error) {
	a, err := uc.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsAcknowledged {
		return a, nil
	}

	now := time.Now().UTC()
	a.IsAcknowledged = true
	a.AcknowledgedAt = &now

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditAcknowledge, audit.EntityAlert, a.ID, a)
	return a, nil
}

func (uc *alertUseCase) DeleteAlert(ctx context.Context, id string) error {
	if _, err := uc.GetAlert(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityAlert, id, nil)
	return nil
}
