package server

import (
	"context"
	"net/http"

	alertHandler "github.com/fekuna/omnipos-warehouse-service/internal/alert/handler"
	auditHandler "github.com/fekuna/omnipos-warehouse-service/internal/audit/handler"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	authHandler "github.com/fekuna/omnipos-warehouse-service/internal/auth/handler"
	binHandler "github.com/fekuna/omnipos-warehouse-service/internal/bin/handler"
	categoryHandler "github.com/fekuna/omnipos-warehouse-service/internal/category/handler"
	locationHandler "github.com/fekuna/omnipos-warehouse-service/internal/location/handler"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	movementHandler "github.com/fekuna/omnipos-warehouse-service/internal/movement/handler"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/middleware"
	productHandler "github.com/fekuna/omnipos-warehouse-service/internal/product/handler"
	stockHandler "github.com/fekuna/omnipos-warehouse-service/internal/stock/handler"
	userHandler "github.com/fekuna/omnipos-warehouse-service/internal/user/handler"
	warehouseHandler "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/handler"
	zoneHandler "github.com/fekuna/omnipos-warehouse-service/internal/zone/handler"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *authHandler.AuthHandler
	Users      *userHandler.UserHandler
	Categories *categoryHandler.CategoryHandler
	Products   *productHandler.ProductHandler
	Warehouses *warehouseHandler.WarehouseHandler
	Zones      *zoneHandler.ZoneHandler
	Bins       *binHandler.BinHandler
	Locations  *locationHandler.LocationHandler
	Movements  *movementHandler.MovementHandler
	Stock      *stockHandler.StockHandler
	Alerts     *alertHandler.AlertHandler
	Audit      *auditHandler.AuditHandler
}

type Options struct {
	Tokens        *auth.TokenManager
	AuthRateLimit gin.HandlerFunc
	// Health reports whether the service can reach its database.
	Health func(ctx context.Context) error
	Logger logger.ZapLogger
}

// NewRouter mounts every resource under /api. Reads need a valid token,
// reference data writes need a manager role, user and stock maintenance need
// an admin. Any signed-in user may record stock movements.
func NewRouter(opts Options, h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(opts.Logger), middleware.RequestLogger(opts.Logger))

	r.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticate := auth.Authenticate(opts.Tokens)
	canWrite := auth.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleGeneralManager)
	adminOnly := auth.RequireRoles(model.RoleAdmin)
	auditors := auth.RequireRoles(model.RoleAdmin, model.RoleGeneralManager)

	rateLimit := opts.AuthRateLimit
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	api := r.Group("/api")
	h.Auth.RegisterRoutes(api, rateLimit, authenticate, adminOnly)

	protected := api.Group("", authenticate)
	h.Users.RegisterRoutes(protected, adminOnly)
	h.Categories.RegisterRoutes(protected, canWrite)
	h.Products.RegisterRoutes(protected, canWrite)
	h.Warehouses.RegisterRoutes(protected, canWrite)
	h.Zones.RegisterRoutes(protected, canWrite)
	h.Bins.RegisterRoutes(protected, canWrite)
	h.Locations.RegisterRoutes(protected, canWrite)
	h.Movements.RegisterRoutes(protected)
	h.Stock.RegisterRoutes(protected, adminOnly)
	h.Alerts.RegisterRoutes(protected, canWrite)
	h.Audit.RegisterRoutes(protected, auditors)

	return r
}
