package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertMovementQuery = `
    INSERT INTO stock_movements (
        id, warehouse_id, product_id, user_id, movement_type,
        from_bin_code, to_bin_code, quantity, reason,
        transfer_code, transfer_status, reference_type, reference_id,
        movement_date, updated_at
    )
    VALUES (
        :id, :warehouse_id, :product_id, :user_id, :movement_type,
        :from_bin_code, :to_bin_code, :quantity, :reason,
        :transfer_code, :transfer_status, :reference_type, :reference_id,
        :movement_date, :updated_at
    )
`

const updateMovementQuery = `
    UPDATE stock_movements
    SET user_id = :user_id,
        from_bin_code = :from_bin_code,
        to_bin_code = :to_bin_code,
        quantity = :quantity,
        reason = :reason,
        transfer_status = :transfer_status,
        updated_at = :updated_at
    WHERE id = :id
`

func (r *PGRepository) Create(ctx context.Context, m *model.StockMovement, effects movement.Effects) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertMovementQuery, m); err != nil {
		if postgres.IsUniqueViolation(err) {
			return movement.ErrTransferLegExists
		}
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	if err := applyEffects(ctx, tx, effects); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.StockMovement, error) {
	var m model.StockMovement
	if err := r.DB.GetContext(ctx, &m, `SELECT * FROM stock_movements WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindTransferLeg(ctx context.Context, code string, movementType model.MovementType) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.DB.GetContext(ctx, &m,
		`SELECT * FROM stock_movements WHERE transfer_code = $1 AND movement_type = $2`, code, string(movementType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = string(f.MovementType)
	}
	if f.TransferCode != "" {
		conditions = append(conditions, "transfer_code = :transfer_code")
		args["transfer_code"] = f.TransferCode
	}
	if f.TransferStatus != nil {
		conditions = append(conditions, "transfer_status = :transfer_status")
		args["transfer_status"] = *f.TransferStatus
	}
	if f.From != nil {
		conditions = append(conditions, "movement_date >= :from_date")
		args["from_date"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "movement_date <= :to_date")
		args["to_date"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY movement_date DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Update(ctx context.Context, m *model.StockMovement, effects movement.Effects) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, updateMovementQuery, m); err != nil {
		return fmt.Errorf("failed to update movement: %w", err)
	}
	if err := applyEffects(ctx, tx, effects); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) Delete(ctx context.Context, id string, effects movement.Effects) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	if err := applyEffects(ctx, tx, effects); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) CompleteTransfer(ctx context.Context, in *model.StockMovement, outID string, effects movement.Effects) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Both legs must still be pending, a concurrent completion loses here.
	res, err := tx.NamedExecContext(ctx, updateMovementQuery+" AND transfer_status = FALSE", in)
	if err != nil {
		return fmt.Errorf("failed to complete transfer in: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return movement.ErrTransferCompleted
	}
	res, err = tx.ExecContext(ctx, `
        UPDATE stock_movements SET transfer_status = TRUE, updated_at = $1
        WHERE id = $2 AND transfer_status = FALSE`, in.UpdatedAt, outID)
	if err != nil {
		return fmt.Errorf("failed to complete transfer out: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return movement.ErrTransferCompleted
	}

	if err := applyEffects(ctx, tx, effects); err != nil {
		return err
	}
	return tx.Commit()
}

func applyEffects(ctx context.Context, tx *sqlx.Tx, effects movement.Effects) error {
	now := time.Now().UTC()

	for _, d := range effects.Stock {
		// Same key the stock projector takes on recompute.
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`, d.ProductID, d.WarehouseID); err != nil {
			return err
		}

		if d.Delta > 0 {
			if _, err := tx.ExecContext(ctx, `
                INSERT INTO stock_status (warehouse_id, product_id, quantity, updated_at)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT (warehouse_id, product_id)
                DO UPDATE SET quantity = stock_status.quantity + EXCLUDED.quantity,
                              updated_at = EXCLUDED.updated_at`,
				d.WarehouseID, d.ProductID, d.Delta, now); err != nil {
				return fmt.Errorf("failed to update stock status: %w", err)
			}
			continue
		}

		res, err := tx.ExecContext(ctx, `
            UPDATE stock_status SET quantity = quantity + $1, updated_at = $2
            WHERE warehouse_id = $3 AND product_id = $4 AND quantity + $1 >= 0`,
			d.Delta, now, d.WarehouseID, d.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update stock status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return movement.ErrInsufficientStock
		}
	}

	for _, d := range effects.Bins {
		var capacity int
		if err := tx.GetContext(ctx, &capacity,
			`SELECT capacity FROM bins WHERE code = $1 FOR UPDATE`, d.BinCode); err != nil {
			return fmt.Errorf("failed to lock bin %s: %w", d.BinCode, err)
		}

		if d.Delta > 0 {
			if capacity > 0 {
				var used int
				if err := tx.GetContext(ctx, &used,
					`SELECT COALESCE(SUM(quantity), 0) FROM product_locations WHERE bin_code = $1`, d.BinCode); err != nil {
					return err
				}
				if used+d.Delta > capacity {
					return movement.ErrBinCapacity
				}
			}
			if _, err := tx.ExecContext(ctx, `
                INSERT INTO product_locations (id, product_id, bin_code, quantity, assigned_at, updated_at)
                VALUES ($1, $2, $3, $4, $5, $5)
                ON CONFLICT (product_id, bin_code)
                DO UPDATE SET quantity = product_locations.quantity + EXCLUDED.quantity,
                              updated_at = EXCLUDED.updated_at`,
				uuid.New().String(), d.ProductID, d.BinCode, d.Delta, now); err != nil {
				return fmt.Errorf("failed to update product location: %w", err)
			}
			continue
		}

		res, err := tx.ExecContext(ctx, `
            UPDATE product_locations SET quantity = quantity + $1, updated_at = $2
            WHERE product_id = $3 AND bin_code = $4 AND quantity + $1 >= 0`,
			d.Delta, now, d.ProductID, d.BinCode)
		if err != nil {
			return fmt.Errorf("failed to update product location: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return movement.ErrInsufficientBinStock
		}
	}
	return nil
}
