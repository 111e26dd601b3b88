package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	input      *dto.MovementInput
	id         string
	deleteType model.MovementType
	filters    *dto.MovementFilters
	err        error
}

func (s *stubUseCase) RecordMovement(_ context.Context, input *dto.MovementInput) (*model.StockMovement, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &model.StockMovement{ID: "m1", ProductID: input.ProductID, WarehouseID: input.WarehouseID, MovementType: input.MovementType, Quantity: input.Quantity}, nil
}

func (s *stubUseCase) GetMovement(_ context.Context, id string) (*model.StockMovement, error) {
	s.id = id
	return &model.StockMovement{ID: id, MovementType: model.MovementIn}, s.err
}

func (s *stubUseCase) ListMovements(_ context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	s.filters = f
	return []model.StockMovement{}, 0, s.err
}

func (s *stubUseCase) UpdateMovement(_ context.Context, id string, input *dto.MovementInput) (*model.StockMovement, error) {
	s.id, s.input = id, input
	if s.err != nil {
		return nil, s.err
	}
	return &model.StockMovement{ID: id, MovementType: input.MovementType}, nil
}

func (s *stubUseCase) DeleteMovement(_ context.Context, t model.MovementType, id string) error {
	s.id, s.deleteType = id, t
	return s.err
}

func newRouter(uc movement.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewMovementHandler(uc, logger.NewNop()).RegisterRoutes(r.Group("/api"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordMovementRoutesByType(t *testing.T) {
	uc := &stubUseCase{}
	r := newRouter(uc)

	w := do(r, http.MethodPost, "/api/StockMovements/transfer-out",
		`{"productId":"p1","warehouseId":"w1","quantity":30,"fromBinId":"B1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.input)
	assert.Equal(t, model.MovementTransferOut, uc.input.MovementType)
	assert.Equal(t, 30, uc.input.Quantity)
	require.NotNil(t, uc.input.FromBinCode)
	assert.Equal(t, "B1", *uc.input.FromBinCode)
	assert.Contains(t, w.Body.String(), `"movementType":"TRANSFER_OUT"`)
}

func TestRecordMovementUnknownType(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodPost, "/api/StockMovements/teleport", `{"quantity":1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Nil(t, uc.input)
}

func TestRecordMovementRequiresQuantity(t *testing.T) {
	w := do(newRouter(&stubUseCase{}), http.MethodPost, "/api/StockMovements/in", `{"productId":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsufficientStockIsConflict(t *testing.T) {
	uc := &stubUseCase{err: movement.ErrInsufficientStock}
	w := do(newRouter(uc), http.MethodPost, "/api/StockMovements/out", `{"productId":"p1","warehouseId":"w1","quantity":5}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"insufficient stock","code":"INSUFFICIENT_STOCK"}`, w.Body.String())
}

func TestCompleteTransferIn(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodPut, "/api/StockMovements/transfer-in/m9", `{"quantity":30,"transferStatus":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m9", uc.id)
	require.NotNil(t, uc.input.TransferStatus)
	assert.True(t, *uc.input.TransferStatus)
	assert.Equal(t, model.MovementTransferIn, uc.input.MovementType)
}

func TestDeleteMovement(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodDelete, "/api/StockMovements/adjust/m3", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, model.MovementAdjust, uc.deleteType)
	assert.Equal(t, "m3", uc.id)
}

func TestGetMovement(t *testing.T) {
	uc := &stubUseCase{}
	w := do(newRouter(uc), http.MethodGet, "/api/StockMovements/m5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m5", uc.id)
}

func TestListMovementsDateRangeIncludesEndDay(t *testing.T) {
	uc := &stubUseCase{}
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/api/StockMovements?from=2024-05-01&to=2024-05-31", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.filters)
	require.NotNil(t, uc.filters.From)
	require.NotNil(t, uc.filters.To)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *uc.filters.From)
	lateOnEndDay := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	assert.False(t, lateOnEndDay.After(*uc.filters.To))
}
