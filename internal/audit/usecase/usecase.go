package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

type auditUseCase struct {
	repo   audit.Repository
	logger logger.ZapLogger
}

func NewAuditUseCase(repo audit.Repository, log logger.ZapLogger) audit.UseCase {
	return &auditUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *auditUseCase) Record(ctx context.Context, action model.AuditAction, entity, entityID string, payload interface{}) {
	body := types.JSONText("{}")
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			uc.logger.Warn("failed to encode audit payload", zap.String("entity", entity), zap.Error(err))
		} else {
			body = types.JSONText(data)
		}
	}

	entry := &model.AuditLog{
		ID:        uuid.New().String(),
		UserID:    auth.UserIDFromContext(ctx),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}

	// The business write already committed, a cancelled request must not drop the entry.
	if err := uc.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		uc.logger.Error("failed to write audit log",
			zap.String("action", string(action)),
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (uc *auditUseCase) GetEntry(ctx context.Context, id string) (*model.AuditLog, error) {
	entry, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NotFound("audit log")
	}
	return entry, nil
}

func (uc *auditUseCase) ListEntries(ctx context.Context, filters *dto.AuditFilters) ([]model.AuditLog, int, error) {
	if filters.Action != "" && !filters.Action.Valid() {
		return nil, 0, apperror.Validation("unknown audit action %q", filters.Action)
	}
	return uc.repo.FindAll(ctx, filters)
}
