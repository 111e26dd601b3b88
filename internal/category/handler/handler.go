package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/category"
	"github.com/fekuna/omnipos-warehouse-service/internal/category/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, canWrite gin.HandlerFunc) {
	g := rg.Group("/Categories")
	g.GET("", h.ListCategories)
	g.GET("/:id", h.GetCategory)
	g.POST("", canWrite, h.CreateCategory)
	g.PUT("/:id", canWrite, h.UpdateCategory)
	g.DELETE("/:id", canWrite, h.DeleteCategory)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	cats, total, err := h.uc.ListCategories(c.Request.Context(), &dto.CategoryFilters{
		IsActive: request.BoolQuery(c, "isActive"),
		Search:   request.StringQuery(c, "search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, cats, total, page, pageSize)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &dto.UpdateCategoryInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
