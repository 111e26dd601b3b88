package auth

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type ctxKey struct{}

// UserContext is the authenticated caller placed into the request context.
type UserContext struct {
	UserID      string
	Role        model.Role
	WarehouseID *string
}

func WithUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (*UserContext, bool) {
	u, ok := ctx.Value(ctxKey{}).(*UserContext)
	return u, ok && u != nil
}

// UserIDFromContext returns nil for anonymous and system callers.
func UserIDFromContext(ctx context.Context) *string {
	u, ok := FromContext(ctx)
	if !ok || u.UserID == "" {
		return nil
	}
	id := u.UserID
	return &id
}

func (u *UserContext) HasRole(roles ...model.Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
