package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// pathTypes maps the route segment to the movement type it records.
var pathTypes = map[string]model.MovementType{
	"in":           model.MovementIn,
	"out":          model.MovementOut,
	"adjust":       model.MovementAdjust,
	"transfer-in":  model.MovementTransferIn,
	"transfer-out": model.MovementTransferOut,
}

type MovementHandler struct {
	uc     movement.UseCase
	logger logger.ZapLogger
}

func NewMovementHandler(uc movement.UseCase, log logger.ZapLogger) *MovementHandler {
	return &MovementHandler{
		uc:     uc,
		logger: log,
	}
}

type movementRequest struct {
	ProductID      string  `json:"productId"`
	WarehouseID    string  `json:"warehouseId"`
	Quantity       int     `json:"quantity" binding:"required"`
	FromBinID      *string `json:"fromBinId"`
	ToBinID        *string `json:"toBinId"`
	Reason         string  `json:"reason"`
	TransferCode   string  `json:"transferCode"`
	TransferStatus *bool   `json:"transferStatus"`
}

func (r *movementRequest) toInput(t model.MovementType) *dto.MovementInput {
	return &dto.MovementInput{
		ProductID:      r.ProductID,
		WarehouseID:    r.WarehouseID,
		MovementType:   t,
		Quantity:       r.Quantity,
		FromBinCode:    r.FromBinID,
		ToBinCode:      r.ToBinID,
		Reason:         r.Reason,
		TransferCode:   r.TransferCode,
		TransferStatus: r.TransferStatus,
	}
}

func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/StockMovements")
	g.GET("", h.ListMovements)
	g.GET("/:id", h.GetMovement)
	g.POST("/:type", h.RecordMovement)
	g.PUT("/:type/:id", h.UpdateMovement)
	g.DELETE("/:type/:id", h.DeleteMovement)
}

func (h *MovementHandler) movementType(c *gin.Context) (model.MovementType, bool) {
	t, ok := pathTypes[c.Param("type")]
	if !ok {
		response.Error(c, h.logger, apperror.NotFound("movement route"))
	}
	return t, ok
}

func (h *MovementHandler) RecordMovement(c *gin.Context) {
	t, ok := h.movementType(c)
	if !ok {
		return
	}
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	m, err := h.uc.RecordMovement(c.Request.Context(), req.toInput(t))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *MovementHandler) GetMovement(c *gin.Context) {
	m, err := h.uc.GetMovement(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *MovementHandler) ListMovements(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	items, total, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		ProductID:      request.StringQuery(c, "productId"),
		WarehouseID:    request.StringQuery(c, "warehouseId"),
		MovementType:   model.MovementType(request.StringQuery(c, "type")),
		TransferCode:   request.StringQuery(c, "transferCode"),
		TransferStatus: request.BoolQuery(c, "transferStatus"),
		From:           request.TimeQuery(c, "from"),
		To:             request.EndTimeQuery(c, "to"),
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, items, total, page, pageSize)
}

func (h *MovementHandler) UpdateMovement(c *gin.Context) {
	t, ok := h.movementType(c)
	if !ok {
		return
	}
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	m, err := h.uc.UpdateMovement(c.Request.Context(), c.Param("id"), req.toInput(t))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *MovementHandler) DeleteMovement(c *gin.Context) {
	t, ok := h.movementType(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteMovement(c.Request.Context(), t, c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
