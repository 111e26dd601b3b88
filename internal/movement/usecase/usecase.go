package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
	lockTTL      = 5 * time.Second
)

type movementUseCase struct {
	repo       movement.Repository
	products   product.Repository
	warehouses warehouse.Repository
	bins       bin.Repository
	stock      stock.UseCase
	audit      audit.Recorder
	locker     movement.Locker
	publisher  broker.Publisher
	logger     logger.ZapLogger
}

type Deps struct {
	Repo       movement.Repository
	Products   product.Repository
	Warehouses warehouse.Repository
	Bins       bin.Repository
	Stock      stock.UseCase
	Audit      audit.Recorder
	// Locker and Publisher are optional.
	Locker    movement.Locker
	Publisher broker.Publisher
	Logger    logger.ZapLogger
}

func NewMovementUseCase(d Deps) movement.UseCase {
	return &movementUseCase{
		repo:       d.Repo,
		products:   d.Products,
		warehouses: d.Warehouses,
		bins:       d.Bins,
		stock:      d.Stock,
		audit:      d.Audit,
		locker:     d.Locker,
		publisher:  d.Publisher,
		logger:     d.Logger,
	}
}

func (uc *movementUseCase) RecordMovement(ctx context.Context, input *dto.MovementInput) (*model.StockMovement, error) {
	if !input.MovementType.Valid() {
		return nil, apperror.Validation("unknown movement type %q", input.MovementType)
	}

	var out *model.StockMovement
	switch input.MovementType {
	case model.MovementTransferOut:
		code, err := uc.transferOutCode(ctx, input.TransferCode)
		if err != nil {
			return nil, err
		}
		input.TransferCode = code
	case model.MovementTransferIn:
		var err error
		if out, err = uc.resolveTransferOut(ctx, input); err != nil {
			return nil, err
		}
	}

	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}
	if out != nil {
		if err := checkTransferIn(input, out); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	m := &model.StockMovement{
		ID:           uuid.New().String(),
		WarehouseID:  input.WarehouseID,
		ProductID:    input.ProductID,
		UserID:       auth.UserIDFromContext(ctx),
		MovementType: input.MovementType,
		FromBinCode:  nonEmpty(input.FromBinCode),
		ToBinCode:    nonEmpty(input.ToBinCode),
		Quantity:     input.Quantity,
		Reason:       strings.TrimSpace(input.Reason),
		MovementDate: now,
		UpdatedAt:    now,
	}
	if input.MovementType.IsTransfer() {
		m.TransferCode = &input.TransferCode
	}
	if input.ReferenceType != "" {
		m.ReferenceType = &input.ReferenceType
	}
	if input.ReferenceID != "" {
		m.ReferenceID = &input.ReferenceID
	}

	effects := movement.EffectsOf(m)
	err := uc.withLock(ctx, m.ProductID, m.WarehouseID, func() error {
		return uc.repo.Create(ctx, m, effects)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock movement recorded",
		zap.String("movement_id", m.ID),
		zap.String("type", string(m.MovementType)),
		zap.String("product_id", m.ProductID),
		zap.String("warehouse_id", m.WarehouseID),
		zap.Int("quantity", m.Quantity),
	)
	uc.afterWrite(ctx, model.AuditCreate, movement.EventMovementRecorded, m, effects)
	return m, nil
}

func (uc *movementUseCase) GetMovement(ctx context.Context, id string) (*model.StockMovement, error) {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("stock movement")
	}
	return m, nil
}

func (uc *movementUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.MovementType != "" && !filters.MovementType.Valid() {
		return nil, 0, apperror.Validation("unknown movement type %q", filters.MovementType)
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *movementUseCase) UpdateMovement(ctx context.Context, id string, input *dto.MovementInput) (*model.StockMovement, error) {
	existing, err := uc.loadForChange(ctx, input.MovementType, id)
	if err != nil {
		return nil, err
	}

	if existing.TransferStatus {
		if input.TransferStatus != nil && !*input.TransferStatus {
			return nil, apperror.Validation("a completed transfer cannot go back to pending")
		}
		return nil, movement.ErrTransferCompleted
	}

	// Product and warehouse are fixed once recorded.
	input.ProductID = existing.ProductID
	input.WarehouseID = existing.WarehouseID
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	updated := *existing
	updated.FromBinCode = nonEmpty(input.FromBinCode)
	updated.ToBinCode = nonEmpty(input.ToBinCode)
	updated.Quantity = input.Quantity
	updated.Reason = strings.TrimSpace(input.Reason)
	updated.UserID = auth.UserIDFromContext(ctx)
	updated.UpdatedAt = time.Now().UTC()

	if existing.MovementType == model.MovementTransferIn {
		out, err := uc.repo.FindTransferLeg(ctx, *existing.TransferCode, model.MovementTransferOut)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, apperror.NotFound("transfer out")
		}
		if input.Quantity > out.Quantity {
			return nil, apperror.Validation("transfer in quantity %d exceeds transferred quantity %d", input.Quantity, out.Quantity)
		}
		if input.TransferStatus != nil && *input.TransferStatus {
			return uc.completeTransfer(ctx, &updated, out)
		}
	}

	effects := movement.Merge(movement.EffectsOf(existing).Invert(), movement.EffectsOf(&updated))
	err = uc.withLock(ctx, updated.ProductID, updated.WarehouseID, func() error {
		return uc.repo.Update(ctx, &updated, effects)
	})
	if err != nil {
		return nil, err
	}

	uc.afterWrite(ctx, model.AuditUpdate, movement.EventMovementUpdated, &updated, effects)
	return &updated, nil
}

func (uc *movementUseCase) completeTransfer(ctx context.Context, in, out *model.StockMovement) (*model.StockMovement, error) {
	in.TransferStatus = true
	effects := movement.EffectsOf(in)
	err := uc.withLock(ctx, in.ProductID, in.WarehouseID, func() error {
		return uc.repo.CompleteTransfer(ctx, in, out.ID, effects)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transfer completed",
		zap.String("transfer_code", *in.TransferCode),
		zap.String("from_warehouse_id", out.WarehouseID),
		zap.String("to_warehouse_id", in.WarehouseID),
		zap.Int("quantity", in.Quantity),
	)
	uc.afterWrite(ctx, model.AuditCompleteTransfer, movement.EventTransferCompleted, in, effects)
	return in, nil
}

func (uc *movementUseCase) DeleteMovement(ctx context.Context, movementType model.MovementType, id string) error {
	existing, err := uc.loadForChange(ctx, movementType, id)
	if err != nil {
		return err
	}
	if existing.TransferStatus {
		return movement.ErrTransferCompleted
	}

	effects := movement.EffectsOf(existing).Invert()
	err = uc.withLock(ctx, existing.ProductID, existing.WarehouseID, func() error {
		return uc.repo.Delete(ctx, id, effects)
	})
	if err != nil {
		return err
	}

	uc.afterWrite(ctx, model.AuditDelete, movement.EventMovementDeleted, existing, effects)
	return nil
}

// loadForChange fetches a movement about to be updated or deleted and checks
// that the caller addressed it by its stored type.
func (uc *movementUseCase) loadForChange(ctx context.Context, movementType model.MovementType, id string) (*model.StockMovement, error) {
	m, err := uc.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.MovementType != movementType {
		return nil, apperror.Validation("movement %s is %s, not %s", id, m.MovementType, movementType)
	}
	if m.MovementType == model.MovementTransferOut && m.TransferCode != nil {
		in, err := uc.repo.FindTransferLeg(ctx, *m.TransferCode, model.MovementTransferIn)
		if err != nil {
			return nil, err
		}
		if in != nil {
			return nil, apperror.Conflict("transfer %s already has an incoming leg", *m.TransferCode)
		}
	}
	return m, nil
}

func (uc *movementUseCase) transferOutCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return movement.TransferCodePrefix + ulid.Make().String(), nil
	}
	existing, err := uc.repo.FindTransferLeg(ctx, code, model.MovementTransferOut)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperror.Conflict("transfer code %s is already in use", code)
	}
	return code, nil
}

func (uc *movementUseCase) resolveTransferOut(ctx context.Context, input *dto.MovementInput) (*model.StockMovement, error) {
	input.TransferCode = strings.TrimSpace(input.TransferCode)
	if input.TransferCode == "" {
		return nil, apperror.Validation("transferCode is required for TRANSFER_IN")
	}

	out, err := uc.repo.FindTransferLeg(ctx, input.TransferCode, model.MovementTransferOut)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.NotFound("transfer out")
	}
	in, err := uc.repo.FindTransferLeg(ctx, input.TransferCode, model.MovementTransferIn)
	if err != nil {
		return nil, err
	}
	if in != nil {
		return nil, movement.ErrTransferLegExists
	}

	if input.ProductID == "" {
		input.ProductID = out.ProductID
	}
	return out, nil
}

func checkTransferIn(input *dto.MovementInput, out *model.StockMovement) error {
	if input.ProductID != out.ProductID {
		return apperror.Validation("transfer %s moves product %s", *out.TransferCode, out.ProductID)
	}
	if input.WarehouseID == out.WarehouseID {
		return apperror.Validation("transfer destination must differ from the source warehouse")
	}
	if input.Quantity > out.Quantity {
		return apperror.Validation("transfer in quantity %d exceeds transferred quantity %d", input.Quantity, out.Quantity)
	}
	return nil
}

func (uc *movementUseCase) validate(ctx context.Context, input *dto.MovementInput) error {
	if input.ProductID == "" || input.WarehouseID == "" {
		return apperror.Validation("productId and warehouseId are required")
	}
	if input.MovementType == model.MovementAdjust {
		if input.Quantity == 0 {
			return apperror.Validation("adjustment quantity must not be zero")
		}
	} else if input.Quantity <= 0 {
		return apperror.Validation("quantity must be greater than zero")
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NotFound("product")
	}
	if !p.IsActive {
		return apperror.Validation("product %s is inactive", p.SKU)
	}

	w, err := uc.warehouses.FindByID(ctx, input.WarehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return apperror.NotFound("warehouse")
	}
	if !w.IsActive {
		return apperror.Validation("warehouse %s is inactive", w.Name)
	}

	for _, code := range []*string{input.FromBinCode, input.ToBinCode} {
		if code == nil || *code == "" {
			continue
		}
		b, err := uc.bins.FindByCode(ctx, *code)
		if err != nil {
			return err
		}
		if b == nil {
			return apperror.NotFound("bin")
		}
		if !b.IsActive {
			return apperror.Validation("bin %s is inactive", b.Code)
		}
		if b.WarehouseID != input.WarehouseID {
			return apperror.Validation("bin %s does not belong to warehouse %s", b.Code, input.WarehouseID)
		}
	}
	return nil
}

// withLock runs fn holding the distributed lock of the pair when a locker is
// configured. The guarded updates in the repository keep counters correct
// without it.
func (uc *movementUseCase) withLock(ctx context.Context, productID, warehouseID string, fn func() error) error {
	if uc.locker == nil {
		return fn()
	}

	key := fmt.Sprintf("lock:stock:%s:%s", productID, warehouseID)
	value := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire stock lock", zap.String("key", key), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		return apperror.Conflict("stock for product %s is being updated, try again", productID)
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, value); err != nil {
			uc.logger.Warn("failed to release stock lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn()
}

// afterWrite re-evaluates only the pairs whose counter the write changed. A
// pending TRANSFER_IN or a bin-only edit evaluates nothing.
func (uc *movementUseCase) afterWrite(ctx context.Context, action model.AuditAction, eventType string, m *model.StockMovement, effects movement.Effects) {
	for _, d := range effects.Stock {
		if _, err := uc.stock.Evaluate(ctx, d.ProductID, d.WarehouseID); err != nil {
			uc.logger.Error("failed to evaluate stock status",
				zap.String("product_id", d.ProductID),
				zap.String("warehouse_id", d.WarehouseID),
				zap.Error(err),
			)
		}
	}

	uc.audit.Record(ctx, action, audit.EntityStockMovement, m.ID, m)

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, eventType, m.ProductID, m); err != nil {
			uc.logger.Warn("failed to publish movement event", zap.String("movement_id", m.ID), zap.Error(err))
		}
	}
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
