package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	uc     location.UseCase
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		logger: log,
	}
}

type locationRequest struct {
	ProductID string `json:"productId" binding:"required"`
	BinCode   string `json:"binCode" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (r *locationRequest) toInput() *dto.LocationInput {
	return &dto.LocationInput{ProductID: r.ProductID, BinCode: r.BinCode, Quantity: r.Quantity}
}

func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/ProductLocations")
	g.GET("", h.ListLocations)
	g.GET("/:id", h.GetLocation)
	g.POST("", canWrite, h.CreateLocation)
	g.PUT("/:id", canWrite, h.UpdateLocation)
	g.DELETE("/:id", canWrite, h.DeleteLocation)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	l, err := h.uc.CreateLocation(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	l, err := h.uc.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *LocationHandler) ListLocations(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	list, total, err := h.uc.ListLocations(c.Request.Context(), &dto.LocationFilters{
		ProductID:   request.StringQuery(c, "productId"),
		BinCode:     request.StringQuery(c, "binCode"),
		WarehouseID: request.StringQuery(c, "warehouseId"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, list, total, page, pageSize)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	l, err := h.uc.UpdateLocation(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.uc.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
