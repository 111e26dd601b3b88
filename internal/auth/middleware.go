package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Authenticate validates the bearer token and stores the caller in the
// request context.
func Authenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "invalid authorization header")
			return
		}

		claims, err := tm.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "invalid or expired token")
			return
		}

		ctx := WithUser(c.Request.Context(), &UserContext{
			UserID:      claims.UserID,
			Role:        claims.Role,
			WarehouseID: claims.WarehouseID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := FromContext(c.Request.Context())
		if !ok {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated")
			return
		}
		if !u.HasRole(roles...) {
			response.Abort(c, http.StatusForbidden, apperror.CodeForbidden, "insufficient role")
			return
		}
		c.Next()
	}
}
