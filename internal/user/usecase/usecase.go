package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/user"
	"github.com/fekuna/omnipos-warehouse-service/internal/user/dto"
	"github.com/google/uuid"
)

const minPasswordLength = 8

type userUseCase struct {
	repo   user.Repository
	audit  audit.Recorder
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, auditor audit.Recorder, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		audit:  auditor,
		logger: log,
	}
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Validation("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (uc *userUseCase) validate(ctx context.Context, input *dto.UserInput, excludeID string) error {
	if strings.TrimSpace(input.FullName) == "" {
		return apperror.Validation("full name is required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperror.Validation("invalid email address")
	}
	if !input.Role.Valid() {
		return apperror.Validation("unknown role %q", input.Role)
	}

	unique, err := uc.repo.IsEmailUnique(ctx, input.Email, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return apperror.Conflict("email already registered")
	}
	return nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.UserInput) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := uc.validate(ctx, input, ""); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		FullName:     strings.TrimSpace(input.FullName),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		WarehouseID:  optional(input.WarehouseID),
		IsActive:     true,
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityUser, u.ID, u)
	return u, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user")
	}
	return u, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id string, input *dto.UserInput) (*model.User, error) {
	u, err := uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := uc.validate(ctx, input, id); err != nil {
		return nil, err
	}

	if input.Password != "" {
		if err := ValidatePassword(input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	u.FullName = strings.TrimSpace(input.FullName)
	u.Email = input.Email
	u.Role = input.Role
	u.WarehouseID = optional(input.WarehouseID)
	u.IsActive = input.IsActive
	u.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityUser, u.ID, u)
	return u, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.GetUser(ctx, id); err != nil {
		return err
	}
	if caller, ok := auth.FromContext(ctx); ok && caller.UserID == id {
		return apperror.Conflict("cannot delete the signed-in user")
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityUser, id, nil)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
