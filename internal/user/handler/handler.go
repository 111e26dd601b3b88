package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/fekuna/omnipos-warehouse-service/internal/user"
	"github.com/fekuna/omnipos-warehouse-service/internal/user/dto"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: log,
	}
}

type UserRequest struct {
	FullName    string     `json:"fullName" binding:"required"`
	Email       string     `json:"email" binding:"required"`
	Password    string     `json:"password"`
	Role        model.Role `json:"role" binding:"required"`
	WarehouseID string     `json:"warehouseId"`
	IsActive    *bool      `json:"isActive"`
}

func (r *UserRequest) ToInput() *dto.UserInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &dto.UserInput{
		FullName:    r.FullName,
		Email:       r.Email,
		Password:    r.Password,
		Role:        r.Role,
		WarehouseID: r.WarehouseID,
		IsActive:    active,
	}
}

// RegisterRoutes mounts user management, Admin only.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	g := rg.Group("/Users", adminOnly)
	g.GET("", h.ListUsers)
	g.GET("/:id", h.GetUser)
	g.POST("", h.CreateUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	users, total, err := h.uc.ListUsers(c.Request.Context(), &dto.UserFilters{
		Role:        model.Role(request.StringQuery(c, "role")),
		WarehouseID: request.StringQuery(c, "warehouseId"),
		IsActive:    request.BoolQuery(c, "isActive"),
		Search:      request.StringQuery(c, "search"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, users, total, page, pageSize)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.uc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.NoContent(c)
}
