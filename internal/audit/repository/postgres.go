package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/audit/dto"
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

func (r *PGRepository) Create(ctx context.Context, e *model.AuditLog) error {
	query := `
        INSERT INTO audit_logs (id, user_id, action, entity, entity_id, payload, created_at)
        VALUES (:id, :user_id, :action, :entity, :entity_id, :payload, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.AuditLog, error) {
	var entry model.AuditLog
	err := r.DB.GetContext(ctx, &entry, `SELECT * FROM audit_logs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AuditFilters) ([]model.AuditLog, int, error) {
	var entries []model.AuditLog

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.Entity != "" {
		conditions = append(conditions, "entity = :entity")
		args["entity"] = f.Entity
	}
	if f.EntityID != "" {
		conditions = append(conditions, "entity_id = :entity_id")
		args["entity_id"] = f.EntityID
	}
	if f.Action != "" {
		conditions = append(conditions, "action = :action")
		args["action"] = string(f.Action)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := postgres.Count(ctx, r.DB, "SELECT count(*) FROM audit_logs"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM audit_logs%s ORDER BY created_at DESC", whereClause)
	if f.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (f.Page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &entries, args); err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
