package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertLocationQuery = `
        INSERT INTO product_locations (id, product_id, bin_code, quantity, assigned_at, updated_at)
        VALUES (:id, :product_id, :bin_code, :quantity, :assigned_at, :updated_at)
    `

const updateLocationQuery = `
        UPDATE product_locations
        SET product_id = :product_id,
            bin_code = :bin_code,
            quantity = :quantity,
            updated_at = :updated_at
        WHERE id = :id
    `

func (r *PGRepository) Create(ctx context.Context, l *model.ProductLocation) error {
	return r.writeWithinCapacity(ctx, l, insertLocationQuery)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ProductLocation, error) {
	return r.findOne(ctx, `SELECT * FROM product_locations WHERE id = $1`, id)
}

func (r *PGRepository) FindByProductAndBin(ctx context.Context, productID, binCode string) (*model.ProductLocation, error) {
	return r.findOne(ctx, `SELECT * FROM product_locations WHERE product_id = $1 AND bin_code = $2`, productID, binCode)
}

func (r *PGRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.ProductLocation, error) {
	var l model.ProductLocation
	if err := r.DB.GetContext(ctx, &l, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LocationFilters) ([]model.ProductLocation, int, error) {
	var locations []model.ProductLocation

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.BinCode != "" {
		conditions = append(conditions, "bin_code = :bin_code")
		args["bin_code"] = f.BinCode
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "bin_code IN (SELECT code FROM bins WHERE warehouse_id = :warehouse_id)")
		args["warehouse_id"] = f.WarehouseID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM product_locations"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM product_locations%s ORDER BY bin_code, assigned_at", whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &locations, args); err != nil {
		return nil, 0, err
	}
	return locations, count, nil
}

func (r *PGRepository) Update(ctx context.Context, l *model.ProductLocation) error {
	return r.writeWithinCapacity(ctx, l, updateLocationQuery)
}

// writeWithinCapacity runs query under the same bin row lock stock movements
// take, so a location write and a movement cannot both fill the last slot.
func (r *PGRepository) writeWithinCapacity(ctx context.Context, l *model.ProductLocation, query string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var capacity int
	if err := tx.GetContext(ctx, &capacity, `SELECT capacity FROM bins WHERE code = $1 FOR UPDATE`, l.BinCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("bin")
		}
		return fmt.Errorf("failed to lock bin %s: %w", l.BinCode, err)
	}

	if capacity > 0 {
		var used int
		if err := tx.GetContext(ctx, &used,
			`SELECT COALESCE(SUM(quantity), 0) FROM product_locations WHERE bin_code = $1 AND id <> $2`,
			l.BinCode, l.ID); err != nil {
			return err
		}
		if used+l.Quantity > capacity {
			return location.ErrBinCapacity
		}
	}

	if _, err := tx.NamedExecContext(ctx, query, l); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.Conflict("product is already assigned to bin %s", l.BinCode)
		}
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM product_locations WHERE id = $1", id)
	return err
}

func (r *PGRepository) SumQuantityByBin(ctx context.Context, binCode string) (int, error) {
	var total int
	err := r.DB.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(quantity), 0) FROM product_locations WHERE bin_code = $1`, binCode)
	return total, err
}
