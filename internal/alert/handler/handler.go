package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	uc     alert.UseCase
	logger logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{
		uc:     uc,
		logger: log,
	}
}

type alertRequest struct {
	WarehouseID    string `json:"warehouseId" binding:"required"`
	ProductID      string `json:"productId" binding:"required"`
	AlertType      string `json:"alertType" binding:"required"`
	Message        string `json:"message"`
	IsAcknowledged bool   `json:"isAcknowledged"`
}

func (r *alertRequest) toInput() *dto.AlertInput {
	return &dto.AlertInput{
		WarehouseID:    r.WarehouseID,
		ProductID:      r.ProductID,
		AlertType:      model.AlertType(r.AlertType),
		Message:        r.Message,
		IsAcknowledged: r.IsAcknowledged,
	}
}

func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/Alerts")
	g.GET("", h.ListAlerts)
	g.GET("/:id", h.GetAlert)
	g.POST("", canWrite, h.CreateAlert)
	g.PUT("/:id", canWrite, h.UpdateAlert)
	g.PUT("/:id/acknowledge", canWrite, h.AcknowledgeAlert)
	g.DELETE("/:id", canWrite, h.DeleteAlert)
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	a, err := h.uc.CreateAlert(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *AlertHandler) GetAlert(c *gin.Context) {
	a, err := h.uc.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	alerts, total, err := h.uc.ListAlerts(c.Request.Context(), &dto.AlertFilters{
		WarehouseID:    request.StringQuery(c, "warehouseId"),
		ProductID:      request.StringQuery(c, "productId"),
		AlertType:      model.AlertType(request.StringQuery(c, "alertType")),
		IsAcknowledged: request.BoolQuery(c, "isAcknowledged"),
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, alerts, total, page, pageSize)
}

func (h *AlertHandler) UpdateAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	a, err := h.uc.UpdateAlert(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	a, err := h.uc.AcknowledgeAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	if err := h.uc.DeleteAlert(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
