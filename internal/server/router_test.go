package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
	productHandler "github.com/fekuna/omnipos-warehouse-service/internal/product/handler"
	stockHandler "github.com/fekuna/omnipos-warehouse-service/internal/stock/handler"
	userHandler "github.com/fekuna/omnipos-warehouse-service/internal/user/handler"
	warehouseHandler "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/handler"
	zoneHandler "github.com/fekuna/omnipos-warehouse-service/internal/zone/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only guard behavior is exercised here, so the handlers carry no use cases.
func newTestRouter(t *testing.T, health func(ctx context.Context) error) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	tokens := auth.NewTokenManager("test-secret", "warehouse-service", "warehouse-clients", time.Hour)

	h := &Handlers{
		Auth:       authHandler.NewAuthHandler(nil, nil, log),
		Users:      userHandler.NewUserHandler(nil, log),
		Categories: categoryHandler.NewCategoryHandler(nil, log),
		Products:   productHandler.NewProductHandler(nil, log),
		Warehouses: warehouseHandler.NewWarehouseHandler(nil, log),
		Zones:      zoneHandler.NewZoneHandler(nil, log),
		Bins:       binHandler.NewBinHandler(nil, log),
		Locations:  locationHandler.NewLocationHandler(nil, log),
		Movements:  movementHandler.NewMovementHandler(nil, log),
		Stock:      stockHandler.NewStockHandler(nil, log),
		Alerts:     alertHandler.NewAlertHandler(nil, log),
		Audit:      auditHandler.NewAuditHandler(nil, log),
	}
	return NewRouter(Options{Tokens: tokens, Health: health, Logger: log}, h), tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, role model.Role) string {
	t.Helper()
	u := &model.User{Email: "someone@example.com", Role: role}
	u.ID = "user-" + string(role)
	token, _, err := tokens.Generate(u)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r, _ = newTestRouter(t, func(ctx context.Context) error { return errors.New("db down") })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouteGuards(t *testing.T) {
	r, tokens := newTestRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		role   model.Role
		want   int
	}{
		{"no token", http.MethodGet, "/api/Products", "", http.StatusUnauthorized},
		{"clerk cannot create category", http.MethodPost, "/api/Categories", model.RoleClerk, http.StatusForbidden},
		{"clerk cannot delete bin", http.MethodDelete, "/api/Bins/b1", model.RoleClerk, http.StatusForbidden},
		{"manager cannot list users", http.MethodGet, "/api/Users", model.RoleManager, http.StatusForbidden},
		{"manager cannot recompute stock", http.MethodPost, "/api/StockStatus/p1/w1/recompute", model.RoleManager, http.StatusForbidden},
		{"clerk cannot read audit log", http.MethodGet, "/api/AuditLog", model.RoleClerk, http.StatusForbidden},
		{"manager cannot register users", http.MethodPost, "/api/Auth/register", model.RoleManager, http.StatusForbidden},
		{"register needs a token", http.MethodPost, "/api/Auth/register", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tokens, tt.role))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
