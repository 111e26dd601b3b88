package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	alertDTO "github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	alertUseCase "github.com/fekuna/omnipos-warehouse-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	stockUseCase "github.com/fekuna/omnipos-warehouse-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memstore.Store
	audit  *memstore.Recorder
	alerts interface {
		ListAlerts(ctx context.Context, f *alertDTO.AlertFilters) ([]model.Alert, int, error)
	}
	uc movement.UseCase
}

func newFixture(t *testing.T, locker movement.Locker) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	rec := &memstore.Recorder{}
	log := logger.NewNop()

	alerts := alertUseCase.NewAlertUseCase(store.Alerts(), nil, nil, rec, "en", log)
	stock := stockUseCase.NewStockUseCase(store.Stock(), alerts, rec, 20, log)

	now := time.Now().UTC()
	require.NoError(t, store.Products().Create(ctx, &model.Product{BaseModel: model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now}, SKU: "SKU-1", Name: "Widget", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &model.Product{BaseModel: model.BaseModel{ID: "p-old"}, SKU: "SKU-OLD", Name: "Retired", IsActive: false}))
	require.NoError(t, store.Warehouses().Create(ctx, &model.Warehouse{BaseModel: model.BaseModel{ID: "w1"}, Name: "W1", IsActive: true}))
	require.NoError(t, store.Warehouses().Create(ctx, &model.Warehouse{BaseModel: model.BaseModel{ID: "w2"}, Name: "W2", IsActive: true}))
	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B1", WarehouseID: "w1", ZoneID: "z1", IsActive: true}))
	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B-SMALL", WarehouseID: "w1", ZoneID: "z1", Capacity: 10, IsActive: true}))
	require.NoError(t, store.Bins().Create(ctx, &model.Bin{Code: "B2", WarehouseID: "w2", ZoneID: "z2", IsActive: true}))

	return &fixture{
		store:  store,
		audit:  rec,
		alerts: alerts,
		uc: usecase.NewMovementUseCase(usecase.Deps{
			Repo:       store.Movements(),
			Products:   store.Products(),
			Warehouses: store.Warehouses(),
			Bins:       store.Bins(),
			Stock:      stock,
			Audit:      rec,
			Locker:     locker,
			Logger:     log,
		}),
	}
}

func str(s string) *string { return &s }

func userCtx() context.Context {
	return auth.WithUser(context.Background(), &auth.UserContext{UserID: "u1", Role: model.RoleClerk})
}

func (f *fixture) record(t *testing.T, input *dto.MovementInput) *model.StockMovement {
	t.Helper()
	m, err := f.uc.RecordMovement(userCtx(), input)
	require.NoError(t, err)
	return m
}

func TestRecordMovementIn(t *testing.T) {
	f := newFixture(t, nil)
	before := time.Now().UTC()

	m := f.record(t, &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 100, ToBinCode: str("B1"), Reason: "restock",
	})

	assert.Equal(t, model.MovementIn, m.MovementType)
	assert.False(t, m.MovementDate.Before(before))
	require.NotNil(t, m.UserID)
	assert.Equal(t, "u1", *m.UserID)
	assert.Equal(t, 100, f.store.Quantity("p1", "w1"))
	assert.Equal(t, 100, f.store.BinQuantity("p1", "B1"))
	assert.Equal(t, []model.AuditAction{model.AuditCreate}, f.audit.Actions(audit.EntityStockMovement))

	stored, err := f.uc.GetMovement(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "restock", stored.Reason)
}

func TestRecordMovementValidation(t *testing.T) {
	f := newFixture(t, nil)
	cases := []struct {
		name  string
		input dto.MovementInput
		code  apperror.Code
	}{
		{"unknown type", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: "MOVE", Quantity: 1}, apperror.CodeValidation},
		{"zero quantity", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn}, apperror.CodeValidation},
		{"negative out", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementOut, Quantity: -2}, apperror.CodeValidation},
		{"zero adjust", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementAdjust}, apperror.CodeValidation},
		{"unknown product", dto.MovementInput{ProductID: "nope", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 1}, apperror.CodeNotFound},
		{"inactive product", dto.MovementInput{ProductID: "p-old", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 1}, apperror.CodeValidation},
		{"unknown warehouse", dto.MovementInput{ProductID: "p1", WarehouseID: "nope", MovementType: model.MovementIn, Quantity: 1}, apperror.CodeNotFound},
		{"unknown bin", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 1, ToBinCode: str("B404")}, apperror.CodeNotFound},
		{"bin of another warehouse", dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 1, ToBinCode: str("B2")}, apperror.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := f.uc.RecordMovement(userCtx(), &input)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperror.CodeOf(err))
		})
	}
	assert.Equal(t, 0, f.store.Quantity("p1", "w1"))
}

func TestRecordMovementOutRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 10, ToBinCode: str("B1")})

	_, err := f.uc.RecordMovement(userCtx(), &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementOut, Quantity: 20, FromBinCode: str("B1"),
	})

	require.Error(t, err)
	assert.Equal(t, apperror.CodeInsufficientStock, apperror.CodeOf(err))
	assert.Equal(t, 10, f.store.Quantity("p1", "w1"))
	assert.Equal(t, 10, f.store.BinQuantity("p1", "B1"))

	list, total, err := f.uc.ListMovements(context.Background(), &dto.MovementFilters{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestRecordMovementRespectsBinCapacity(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.RecordMovement(userCtx(), &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 11, ToBinCode: str("B-SMALL"),
	})

	require.ErrorIs(t, err, movement.ErrBinCapacity)
	assert.Equal(t, 0, f.store.Quantity("p1", "w1"))
}

// memstore serialises writes behind one mutex, so this covers the use case
// contract only. The postgres guard is covered by
// TestAdjustGuardedUpdateRejectsOversell in the repository package.
func TestConcurrentAdjustmentsNeverOversell(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 100})

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.uc.RecordMovement(userCtx(), &dto.MovementInput{
				ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementAdjust, Quantity: -60, Reason: "count",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperror.CodeInsufficientStock, apperror.CodeOf(err))
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 40, f.store.Quantity("p1", "w1"))
}

func TestRecordMovementWithRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	f := newFixture(t, client)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 5})

	assert.False(t, mr.Exists("lock:stock:p1:w1"))
	assert.Equal(t, 5, f.store.Quantity("p1", "w1"))
}

func TestRecordMovementBusyLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ok, err := client.AcquireLock(context.Background(), "lock:stock:p1:w1", "someone-else", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	f := newFixture(t, client)
	_, err = f.uc.RecordMovement(userCtx(), &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 5})

	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	assert.Equal(t, 0, f.store.Quantity("p1", "w1"))
}

func TestLowStockRaisesSingleAlert(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 5})
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 3})

	alerts, _, err := f.alerts.ListAlerts(context.Background(), &alertDTO.AlertFilters{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertLowStock, alerts[0].AlertType)
}

func TestUpdateMovementReplacesEffect(t *testing.T) {
	f := newFixture(t, nil)
	m := f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 100, ToBinCode: str("B1")})

	updated, err := f.uc.UpdateMovement(userCtx(), m.ID, &dto.MovementInput{
		MovementType: model.MovementIn, Quantity: 60, ToBinCode: str("B1"), Reason: "miscounted",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, updated.Quantity)
	assert.Equal(t, "miscounted", updated.Reason)
	assert.Equal(t, m.MovementDate, updated.MovementDate)
	assert.Equal(t, 60, f.store.Quantity("p1", "w1"))
	assert.Equal(t, 60, f.store.BinQuantity("p1", "B1"))
}

func TestUpdateMovementChecksPathType(t *testing.T) {
	f := newFixture(t, nil)
	m := f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 10})

	_, err := f.uc.UpdateMovement(userCtx(), m.ID, &dto.MovementInput{MovementType: model.MovementOut, Quantity: 10})
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	err = f.uc.DeleteMovement(userCtx(), model.MovementAdjust, m.ID)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestDeleteMovementReversesEffect(t *testing.T) {
	f := newFixture(t, nil)
	in := f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 40, ToBinCode: str("B1")})
	out := f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementOut, Quantity: 30, FromBinCode: str("B1")})

	// Removing the IN would leave the OUT unbacked.
	err := f.uc.DeleteMovement(userCtx(), model.MovementIn, in.ID)
	assert.Equal(t, apperror.CodeInsufficientStock, apperror.CodeOf(err))

	require.NoError(t, f.uc.DeleteMovement(userCtx(), model.MovementOut, out.ID))
	assert.Equal(t, 40, f.store.Quantity("p1", "w1"))

	require.NoError(t, f.uc.DeleteMovement(userCtx(), model.MovementIn, in.ID))
	assert.Equal(t, 0, f.store.Quantity("p1", "w1"))
	assert.Equal(t, 0, f.store.BinQuantity("p1", "B1"))

	_, err = f.uc.GetMovement(context.Background(), in.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestTransferFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 50, ToBinCode: str("B1")})

	out := f.record(t, &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementTransferOut, Quantity: 30, FromBinCode: str("B1"),
	})
	require.NotNil(t, out.TransferCode)
	assert.True(t, strings.HasPrefix(*out.TransferCode, movement.TransferCodePrefix))
	assert.False(t, out.TransferStatus)
	assert.Equal(t, 20, f.store.Quantity("p1", "w1"))

	// The product is inherited from the outgoing leg.
	in := f.record(t, &dto.MovementInput{
		WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 30, ToBinCode: str("B2"), TransferCode: *out.TransferCode,
	})
	assert.Equal(t, "p1", in.ProductID)
	assert.False(t, in.TransferStatus)
	assert.Equal(t, 0, f.store.Quantity("p1", "w2"))

	// The outgoing leg is locked once an incoming leg exists.
	err := f.uc.DeleteMovement(userCtx(), model.MovementTransferOut, out.ID)
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	done := true
	completed, err := f.uc.UpdateMovement(userCtx(), in.ID, &dto.MovementInput{
		MovementType: model.MovementTransferIn, Quantity: 30, ToBinCode: str("B2"), TransferStatus: &done,
	})
	require.NoError(t, err)
	assert.True(t, completed.TransferStatus)
	assert.Equal(t, 30, f.store.Quantity("p1", "w2"))
	assert.Equal(t, 30, f.store.BinQuantity("p1", "B2"))
	assert.Equal(t, 20, f.store.Quantity("p1", "w1"))

	outLeg, err := f.uc.GetMovement(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, outLeg.TransferStatus)

	_, err = f.uc.UpdateMovement(userCtx(), in.ID, &dto.MovementInput{
		MovementType: model.MovementTransferIn, Quantity: 30, TransferStatus: &done,
	})
	assert.ErrorIs(t, err, movement.ErrTransferCompleted)
	assert.Equal(t, 30, f.store.Quantity("p1", "w2"))

	pending := false
	_, err = f.uc.UpdateMovement(userCtx(), in.ID, &dto.MovementInput{
		MovementType: model.MovementTransferIn, Quantity: 30, TransferStatus: &pending,
	})
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))

	err = f.uc.DeleteMovement(userCtx(), model.MovementTransferIn, in.ID)
	assert.ErrorIs(t, err, movement.ErrTransferCompleted)

	assert.Contains(t, f.audit.Actions(audit.EntityStockMovement), model.AuditCompleteTransfer)
}

func TestTransferInRules(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 50})
	out := f.record(t, &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementTransferOut, Quantity: 30, TransferCode: "TRF-MANUAL",
	})
	assert.Equal(t, "TRF-MANUAL", *out.TransferCode)

	cases := []struct {
		name  string
		input dto.MovementInput
		code  apperror.Code
	}{
		{"missing code", dto.MovementInput{WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 10}, apperror.CodeValidation},
		{"unknown code", dto.MovementInput{WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 10, TransferCode: "TRF-NOPE"}, apperror.CodeNotFound},
		{"more than sent", dto.MovementInput{WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 31, TransferCode: "TRF-MANUAL"}, apperror.CodeValidation},
		{"same warehouse", dto.MovementInput{WarehouseID: "w1", MovementType: model.MovementTransferIn, Quantity: 10, TransferCode: "TRF-MANUAL"}, apperror.CodeValidation},
		{"other product", dto.MovementInput{ProductID: "p-old", WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 10, TransferCode: "TRF-MANUAL"}, apperror.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := f.uc.RecordMovement(userCtx(), &input)
			assert.Equal(t, tc.code, apperror.CodeOf(err))
		})
	}

	_, err := f.uc.RecordMovement(userCtx(), &dto.MovementInput{
		ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementTransferOut, Quantity: 1, TransferCode: "TRF-MANUAL",
	})
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	f.record(t, &dto.MovementInput{WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 30, TransferCode: "TRF-MANUAL"})
	_, err = f.uc.RecordMovement(userCtx(), &dto.MovementInput{
		WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 5, TransferCode: "TRF-MANUAL",
	})
	assert.ErrorIs(t, err, movement.ErrTransferLegExists)
}

func TestPendingTransferInRaisesNoAlerts(t *testing.T) {
	f := newFixture(t, nil)
	f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 100, ToBinCode: str("B1")})
	out := f.record(t, &dto.MovementInput{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementTransferOut, Quantity: 10, FromBinCode: str("B1")})

	in := f.record(t, &dto.MovementInput{
		WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 10, ToBinCode: str("B2"), TransferCode: *out.TransferCode,
	})
	require.False(t, in.TransferStatus)

	_, total, err := f.alerts.ListAlerts(context.Background(), &alertDTO.AlertFilters{WarehouseID: "w2"})
	require.NoError(t, err)
	assert.Equal(t, 0, total, "w2 has never held the product")

	done := true
	_, err = f.uc.UpdateMovement(userCtx(), in.ID, &dto.MovementInput{
		MovementType: model.MovementTransferIn, Quantity: 10, ToBinCode: str("B2"), TransferStatus: &done,
	})
	require.NoError(t, err)

	// 10 < threshold 20 once the stock lands.
	alerts, total, err := f.alerts.ListAlerts(context.Background(), &alertDTO.AlertFilters{WarehouseID: "w2"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, model.AlertLowStock, alerts[0].AlertType)
}
