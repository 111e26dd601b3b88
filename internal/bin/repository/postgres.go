package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
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

func (r *PGRepository) Create(ctx context.Context, b *model.Bin) error {
	query := `
        INSERT INTO bins (code, warehouse_id, zone_id, capacity, is_active, created_at, updated_at)
        VALUES (:code, :warehouse_id, :zone_id, :capacity, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, b)
	if postgres.IsUniqueViolation(err) {
		return apperror.Conflict("bin %s already exists", b.Code)
	}
	return err
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Bin, error) {
	var b model.Bin
	err := r.DB.GetContext(ctx, &b, `SELECT * FROM bins WHERE code = $1 LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.BinFilters) ([]model.Bin, int, error) {
	var bins []model.Bin

	conditions := []string{}
	args := map[string]interface{}{}

	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.ZoneID != "" {
		conditions = append(conditions, "zone_id = :zone_id")
		args["zone_id"] = f.ZoneID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM bins"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM bins%s ORDER BY code", whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &bins, args); err != nil {
		return nil, 0, err
	}
	return bins, count, nil
}

func (r *PGRepository) Update(ctx context.Context, b *model.Bin) error {
	query := `
        UPDATE bins
        SET warehouse_id = :warehouse_id,
            zone_id = :zone_id,
            capacity = :capacity,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE code = :code
    `
	_, err := r.DB.NamedExecContext(ctx, query, b)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, code string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-check under the bin row lock, a movement may have landed since the
	// use case looked.
	if _, err := tx.ExecContext(ctx, `SELECT code FROM bins WHERE code = $1 FOR UPDATE`, code); err != nil {
		return err
	}
	var stored int
	if err := tx.GetContext(ctx, &stored, `
        SELECT COALESCE(SUM(quantity), 0) FROM product_locations
        WHERE bin_code = $1`, code); err != nil {
		return err
	}
	if stored > 0 {
		return apperror.Conflict("bin %s still holds %d unit(s)", code, stored)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bins WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete bin: %w", err)
	}
	return tx.Commit()
}
