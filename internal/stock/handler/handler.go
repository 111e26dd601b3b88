package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	g := rg.Group("/StockStatus")
	g.GET("", h.ListStatuses)
	g.GET("/warehouse/:warehouseId", h.ListByWarehouse)
	g.GET("/:productId/:warehouseId", h.GetStatus)
	g.POST("/:productId/:warehouseId/recompute", adminOnly, h.Recompute)
}

func (h *StockHandler) ListStatuses(c *gin.Context) {
	h.list(c, request.StringQuery(c, "warehouseId"))
}

func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	h.list(c, c.Param("warehouseId"))
}

func (h *StockHandler) list(c *gin.Context, warehouseID string) {
	page, pageSize := request.Pagination(c)
	items, total, err := h.uc.ListStatuses(c.Request.Context(), &dto.StatusFilters{
		WarehouseID: warehouseID,
		ProductID:   request.StringQuery(c, "productId"),
		Level:       request.StringQuery(c, "level"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, items, total, page, pageSize)
}

func (h *StockHandler) GetStatus(c *gin.Context) {
	s, err := h.uc.GetStatus(c.Request.Context(), c.Param("productId"), c.Param("warehouseId"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

func (h *StockHandler) Recompute(c *gin.Context) {
	s, err := h.uc.Recompute(c.Request.Context(), c.Param("productId"), c.Param("warehouseId"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}
