package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []string
}

func (p *capturePublisher) Publish(_ context.Context, eventType, _ string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

func newUseCase(t *testing.T) (alert.UseCase, *memstore.Recorder, *capturePublisher) {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	rec := &memstore.Recorder{}
	pub := &capturePublisher{}
	return usecase.NewAlertUseCase(memstore.New().Alerts(), tr, pub, rec, "en", logger.NewNop()), rec, pub
}

func TestEvaluateRaisesOnce(t *testing.T) {
	uc, _, pub := newUseCase(t)
	ctx := context.Background()
	status := &model.StockStatus{ProductID: "p1", WarehouseID: "w1", Quantity: 5, StockLevel: model.StockLevelLow}

	a, err := uc.Evaluate(ctx, status)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, model.AlertLowStock, a.AlertType)
	assert.Equal(t, "Low stock: product p1 has 5 unit(s) left in warehouse w1", a.Message)

	again, err := uc.Evaluate(ctx, status)
	require.NoError(t, err)
	assert.Nil(t, again)

	_, total, err := uc.ListAlerts(ctx, &dto.AlertFilters{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{alert.EventAlertRaised}, pub.events)
}

func TestEvaluateInStockRaisesNothing(t *testing.T) {
	uc, _, _ := newUseCase(t)

	a, err := uc.Evaluate(context.Background(), &model.StockStatus{ProductID: "p1", WarehouseID: "w1", Quantity: 50, StockLevel: model.StockLevelIn})
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestEvaluateOutOfStockIsSeparateFromLow(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Evaluate(ctx, &model.StockStatus{ProductID: "p1", WarehouseID: "w1", Quantity: 3, StockLevel: model.StockLevelLow})
	require.NoError(t, err)
	out, err := uc.Evaluate(ctx, &model.StockStatus{ProductID: "p1", WarehouseID: "w1", StockLevel: model.StockLevelOut})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, model.AlertOutOfStock, out.AlertType)
}

func TestAcknowledgeTwiceIsIdempotent(t *testing.T) {
	uc, rec, _ := newUseCase(t)
	ctx := context.Background()
	status := &model.StockStatus{ProductID: "p1", WarehouseID: "w1", Quantity: 5, StockLevel: model.StockLevelLow}

	a, err := uc.Evaluate(ctx, status)
	require.NoError(t, err)

	first, err := uc.AcknowledgeAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, first.IsAcknowledged)
	require.NotNil(t, first.AcknowledgedAt)

	second, err := uc.AcknowledgeAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, second.IsAcknowledged)
	assert.Equal(t, first.AcknowledgedAt, second.AcknowledgedAt)

	all, total, err := uc.ListAlerts(ctx, &dto.AlertFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, all, 1)
	assert.Equal(t, []model.AuditAction{model.AuditCreate, model.AuditAcknowledge}, rec.Actions(audit.EntityAlert))
}

func TestEvaluateAfterAcknowledgeRaisesAgain(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	status := &model.StockStatus{ProductID: "p1", WarehouseID: "w1", Quantity: 5, StockLevel: model.StockLevelLow}

	a, err := uc.Evaluate(ctx, status)
	require.NoError(t, err)
	_, err = uc.AcknowledgeAlert(ctx, a.ID)
	require.NoError(t, err)

	next, err := uc.Evaluate(ctx, status)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.NotEqual(t, a.ID, next.ID)
}

func TestAlertCRUD(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateAlert(ctx, &dto.AlertInput{ProductID: "p1", WarehouseID: "w1", AlertType: "SOMETHING"})
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	a, err := uc.CreateAlert(ctx, &dto.AlertInput{ProductID: "p1", WarehouseID: "w1", AlertType: model.AlertOutOfStock, Message: "manual"})
	require.NoError(t, err)

	updated, err := uc.UpdateAlert(ctx, a.ID, &dto.AlertInput{
		ProductID: "p1", WarehouseID: "w1", AlertType: model.AlertOutOfStock, Message: "checked", IsAcknowledged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "checked", updated.Message)
	assert.NotNil(t, updated.AcknowledgedAt)

	require.NoError(t, uc.DeleteAlert(ctx, a.ID))
	_, err = uc.GetAlert(ctx, a.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}
