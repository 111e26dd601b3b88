package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/alert"
	"github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
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

func (r *PGRepository) Create(ctx context.Context, a *model.Alert) error {
	query := `
        INSERT INTO alerts (
            id, warehouse_id, product_id, alert_type, message,
            is_acknowledged, created_at, acknowledged_at
        )
        VALUES (
            :id, :warehouse_id, :product_id, :alert_type, :message,
            :is_acknowledged, :created_at, :acknowledged_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	if postgres.IsUniqueViolation(err) {
		return alert.ErrOpenAlertExists
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Alert, error) {
	var a model.Alert
	if err := r.DB.GetContext(ctx, &a, `SELECT * FROM alerts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.Alert, int, error) {
	var alerts []model.Alert

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
	if f.AlertType != "" {
		conditions = append(conditions, "alert_type = :alert_type")
		args["alert_type"] = string(f.AlertType)
	}
	if f.IsAcknowledged != nil {
		conditions = append(conditions, "is_acknowledged = :is_acknowledged")
		args["is_acknowledged"] = *f.IsAcknowledged
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM alerts"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM alerts%s ORDER BY created_at DESC", whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &alerts, args); err != nil {
		return nil, 0, err
	}
	return alerts, count, nil
}

func (r *PGRepository) Update(ctx context.Context, a *model.Alert) error {
	query := `
        UPDATE alerts
        SET warehouse_id = :warehouse_id,
            product_id = :product_id,
            alert_type = :alert_type,
            message = :message,
            is_acknowledged = :is_acknowledged,
            acknowledged_at = :acknowledged_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	if postgres.IsUniqueViolation(err) {
		return alert.ErrOpenAlertExists
	}
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM alerts WHERE id = $1", id)
	return err
}

func (r *PGRepository) HasOpen(ctx context.Context, productID, warehouseID string, alertType model.AlertType) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `
        SELECT EXISTS (
            SELECT 1 FROM alerts
            WHERE product_id = $1 AND warehouse_id = $2 AND alert_type = $3 AND NOT is_acknowledged
        )`, productID, warehouseID, string(alertType))
	return exists, err
}
