package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	"github.com/google/uuid"
)

type locationUseCase struct {
	repo     location.Repository
	products product.Repository
	bins     bin.Repository
	audit    audit.Recorder
	logger   logger.ZapLogger
}

func NewLocationUseCase(
	repo location.Repository,
	products product.Repository,
	bins bin.Repository,
	auditor audit.Recorder,
	log logger.ZapLogger,
) location.UseCase {
	return &locationUseCase{
		repo:     repo,
		products: products,
		bins:     bins,
		audit:    auditor,
		logger:   log,
	}
}

// validate checks references. Capacity is checked by the repository under
// the bin lock.
func (uc *locationUseCase) validate(ctx context.Context, input *dto.LocationInput) error {
	if input.Quantity < 0 {
		return apperror.Validation("quantity must not be negative")
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NotFound("product")
	}

	b, err := uc.bins.FindByCode(ctx, input.BinCode)
	if err != nil {
		return err
	}
	if b == nil {
		return apperror.NotFound("bin")
	}
	return nil
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.LocationInput) (*model.ProductLocation, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByProductAndBin(ctx, input.ProductID, input.BinCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("product is already assigned to bin %s", input.BinCode)
	}

	now := time.Now().UTC()
	l := &model.ProductLocation{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		BinCode:    input.BinCode,
		Quantity:   input.Quantity,
		AssignedAt: now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityProductLocation, l.ID, l)
	return l, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, id string) (*model.ProductLocation, error) {
	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperror.NotFound("product location")
	}
	return l, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.ProductLocation, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *locationUseCase) UpdateLocation(ctx context.Context, id string, input *dto.LocationInput) (*model.ProductLocation, error) {
	l, err := uc.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	l.ProductID = input.ProductID
	l.BinCode = input.BinCode
	l.Quantity = input.Quantity
	l.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityProductLocation, l.ID, l)
	return l, nil
}

func (uc *locationUseCase) DeleteLocation(ctx context.Context, id string) error {
	if _, err := uc.GetLocation(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityProductLocation, id, nil)
	return nil
}
