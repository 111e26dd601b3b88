package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	var s model.StockStatus
	query := `SELECT * FROM stock_status WHERE product_id = $1 AND warehouse_id = $2`
	if err := r.DB.GetContext(ctx, &s, query, productID, warehouseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StatusFilters) ([]model.StockStatus, int, error) {
	var items []model.StockStatus

	conditions := []string{}
	args := map[string]interface{}{}

	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	switch f.Level {
	case model.StockLevelOut:
		conditions = append(conditions, "quantity <= 0")
	case model.StockLevelLow:
		conditions = append(conditions, "quantity > 0 AND quantity < :threshold")
		args["threshold"] = f.Threshold
	case model.StockLevelIn:
		conditions = append(conditions, "quantity >= :threshold")
		args["threshold"] = f.Threshold
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM stock_status"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM stock_status%s ORDER BY quantity ASC, updated_at DESC", whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// recomputeQuery sums the signed effect of every movement of a pair.
// A TRANSFER_IN only counts once it is completed.
const recomputeQuery = `
    SELECT COALESCE(SUM(
        CASE movement_type
            WHEN 'IN' THEN quantity
            WHEN 'OUT' THEN -quantity
            WHEN 'ADJUST' THEN quantity
            WHEN 'TRANSFER_OUT' THEN -quantity
            WHEN 'TRANSFER_IN' THEN CASE WHEN transfer_status THEN quantity ELSE 0 END
            ELSE 0
        END
    ), 0)
    FROM stock_movements
    WHERE product_id = $1 AND warehouse_id = $2
`

func (r *PGRepository) Recompute(ctx context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialise with concurrent movement writers of the same pair.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, productID, warehouseID); err != nil {
		return nil, err
	}

	var total int
	if err := tx.GetContext(ctx, &total, recomputeQuery, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("failed to sum movements: %w", err)
	}
	if total < 0 {
		// History is inconsistent, the counter cannot go below zero.
		total = 0
	}

	s := &model.StockStatus{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    total,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO stock_status (warehouse_id, product_id, quantity, updated_at)
        VALUES (:warehouse_id, :product_id, :quantity, :updated_at)
        ON CONFLICT (warehouse_id, product_id)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
    `, s)
	if err != nil {
		return nil, fmt.Errorf("failed to store recomputed status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}
