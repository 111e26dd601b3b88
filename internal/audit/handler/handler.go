package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/request"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	uc     audit.UseCase
	logger logger.ZapLogger
}

func NewAuditHandler(uc audit.UseCase, log logger.ZapLogger) *AuditHandler {
	return &AuditHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts the read-only audit endpoints behind guard.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	g := rg.Group("/AuditLog", guard)
	g.GET("", h.ListEntries)
	g.GET("/:id", h.GetEntry)
}

func (h *AuditHandler) ListEntries(c *gin.Context) {
	page, pageSize := request.Pagination(c)
	filters := &dto.AuditFilters{
		UserID:   request.StringQuery(c, "userId"),
		Entity:   request.StringQuery(c, "entity"),
		EntityID: request.StringQuery(c, "entityId"),
		Action:   model.AuditAction(request.StringQuery(c, "action")),
		Page:     page,
		PageSize: pageSize,
	}

	entries, total, err := h.uc.ListEntries(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.List(c, entries, total, page, pageSize)
}

func (h *AuditHandler) GetEntry(c *gin.Context) {
	entry, err := h.uc.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}
