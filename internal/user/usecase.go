package user

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/user/dto"
)

type UseCase interface {
	CreateUser(ctx context.Context, input *dto.UserInput) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error)
	UpdateUser(ctx context.Context, id string, input *dto.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}
