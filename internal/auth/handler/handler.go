package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/fekuna/omnipos-warehouse-service/internal/user"
	userHandler "github.com/fekuna/omnipos-warehouse-service/internal/user/handler"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	uc     auth.UseCase
	users  user.UseCase
	logger logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, users user.UseCase, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		users:  users,
		logger: log,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTPCode     string `json:"otpCode" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// RegisterRoutes mounts /Auth. rateLimit guards the credential endpoints,
// registerGuards run before /register.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc, registerGuards ...gin.HandlerFunc) {
	g := rg.Group("/Auth")
	g.POST("/login", rateLimit, h.Login)
	g.POST("/forgot-password", rateLimit, h.ForgotPassword)
	g.POST("/reset-password", rateLimit, h.ResetPassword)
	g.POST("/register", append(registerGuards, h.Register)...)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	if err := h.uc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "if the account exists a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	err := h.uc.ResetPassword(c.Request.Context(), &dto.ResetPasswordInput{
		Email:       req.Email,
		OTPCode:     req.OTPCode,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req userHandler.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	u, err := h.users.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}
