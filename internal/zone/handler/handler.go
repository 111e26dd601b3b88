package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone"
	"github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
	"github.com/gin-gonic/gin"
)

type ZoneHandler struct {
	uc     zone.UseCase
	logger logger.ZapLogger
}

func NewZoneHandler(uc zone.UseCase, log logger.ZapLogger) *ZoneHandler {
	return &ZoneHandler{
		uc:     uc,
		logger: log,
	}
}

type zoneRequest struct {
	WarehouseID string `json:"warehouseId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	IsActive    *bool  `json:"isActive"`
}

func (r *zoneRequest) toInput() *dto.ZoneInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &dto.ZoneInput{WarehouseID: r.WarehouseID, Name: r.Name, IsActive: active}
}

func (h *ZoneHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/Zones")
	g.GET("", h.ListZones)
	g.GET("/:id", h.GetZone)
	g.POST("", canWrite, h.CreateZone)
	g.PUT("/:id", canWrite, h.UpdateZone)
	g.DELETE("/:id", canWrite, h.DeleteZone)
}

func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	z, err := h.uc.CreateZone(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, z)
}

func (h *ZoneHandler) GetZone(c *gin.Context) {
	z, err := h.uc.GetZone(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, z)
}

func (h *ZoneHandler) ListZones(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	zones, total, err := h.uc.ListZones(c.Request.Context(), &dto.ZoneFilters{
		WarehouseID: request.StringQuery(c, "warehouseId"),
		IsActive:    request.BoolQuery(c, "isActive"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, zones, total, page, pageSize)
}

func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	z, err := h.uc.UpdateZone(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, z)
}

func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	if err := h.uc.DeleteZone(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
