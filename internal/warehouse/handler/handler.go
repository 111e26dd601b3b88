package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse"
	"github.com/fekuna/omnipos-warehouse-service/internal/warehouse/dto"
	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	uc     warehouse.UseCase
	logger logger.ZapLogger
}

func NewWarehouseHandler(uc warehouse.UseCase, log logger.ZapLogger) *WarehouseHandler {
	return &WarehouseHandler{
		uc:     uc,
		logger: log,
	}
}

type warehouseRequest struct {
	Name      string `json:"name" binding:"required"`
	Country   string `json:"country"`
	Province  string `json:"province"`
	District  string `json:"district"`
	Address   string `json:"address"`
	ManagerID string `json:"managerId"`
	IsActive  *bool  `json:"isActive"`
}

func (r *warehouseRequest) toInput() *dto.WarehouseInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &dto.WarehouseInput{
		Name:      r.Name,
		Country:   r.Country,
		Province:  r.Province,
		District:  r.District,
		Address:   r.Address,
		ManagerID: r.ManagerID,
		IsActive:  active,
	}
}

func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/Warehouses")
	g.GET("", h.ListWarehouses)
	g.GET("/:id", h.GetWarehouse)
	g.POST("", canWrite, h.CreateWarehouse)
	g.PUT("/:id", canWrite, h.UpdateWarehouse)
	g.DELETE("/:id", canWrite, h.DeleteWarehouse)
}

func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	w, err := h.uc.CreateWarehouse(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, w)
}

func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	w, err := h.uc.GetWarehouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	list, total, err := h.uc.ListWarehouses(c.Request.Context(), &dto.WarehouseFilters{
		IsActive: request.BoolQuery(c, "isActive"),
		Country:  request.StringQuery(c, "country"),
		Search:   request.StringQuery(c, "search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, list, total, page, pageSize)
}

func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	var req warehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	w, err := h.uc.UpdateWarehouse(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
	if err := h.uc.DeleteWarehouse(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
