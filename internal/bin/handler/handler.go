package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/bin"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type BinHandler struct {
	uc     bin.UseCase
	logger logger.ZapLogger
}

func NewBinHandler(uc bin.UseCase, log logger.ZapLogger) *BinHandler {
	return &BinHandler{
		uc:     uc,
		logger: log,
	}
}

type binRequest struct {
	Code        string `json:"code"`
	WarehouseID string `json:"warehouseId" binding:"required"`
	ZoneID      string `json:"zoneId" binding:"required"`
	Capacity    int    `json:"capacity"`
	IsActive    *bool  `json:"isActive"`
}

func (r *binRequest) toInput(code string) *dto.BinInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &dto.BinInput{
		Code:        code,
		WarehouseID: r.WarehouseID,
		ZoneID:      r.ZoneID,
		Capacity:    r.Capacity,
		IsActive:    active,
	}
}

func (h *BinHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/Bins")
	g.GET("", h.ListBins)
	g.GET("/:code", h.GetBin)
	g.POST("", canWrite, h.CreateBin)
	g.PUT("/:code", canWrite, h.UpdateBin)
	g.DELETE("/:code", canWrite, h.DeleteBin)
}

func (h *BinHandler) CreateBin(c *gin.Context) {
	var req binRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	b, err := h.uc.CreateBin(c.Request.Context(), req.toInput(req.Code))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *BinHandler) GetBin(c *gin.Context) {
	b, err := h.uc.GetBin(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BinHandler) ListBins(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	bins, total, err := h.uc.ListBins(c.Request.Context(), &dto.BinFilters{
		WarehouseID: request.StringQuery(c, "warehouseId"),
		ZoneID:      request.StringQuery(c, "zoneId"),
		IsActive:    request.BoolQuery(c, "isActive"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, bins, total, page, pageSize)
}

func (h *BinHandler) UpdateBin(c *gin.Context) {
	var req binRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	code := c.Param("code")
	b, err := h.uc.UpdateBin(c.Request.Context(), code, req.toInput(code))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BinHandler) DeleteBin(c *gin.Context) {
	if err := h.uc.DeleteBin(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
