package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type AuditAction string

const (
	AuditCreate           AuditAction = "CREATE"
	AuditUpdate           AuditAction = "UPDATE"
	AuditDelete           AuditAction = "DELETE"
	AuditAcknowledge      AuditAction = "ACKNOWLEDGE"
	AuditCompleteTransfer AuditAction = "COMPLETE_TRANSFER"
	AuditLogin            AuditAction = "LOGIN"
	AuditPasswordReset    AuditAction = "PASSWORD_RESET"
	AuditRecompute        AuditAction = "RECOMPUTE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete, AuditAcknowledge,
		AuditCompleteTransfer, AuditLogin, AuditPasswordReset, AuditRecompute:
		return true
	}
	return false
}

type AuditLog struct {
	ID        string         `db:"id" json:"id"`
	UserID    *string        `db:"user_id" json:"userId"`
	Action    AuditAction    `db:"action" json:"action"`
	Entity    string         `db:"entity" json:"entity"`
	EntityID  string         `db:"entity_id" json:"entityId"`
	Payload   types.JSONText `db:"payload" json:"payload"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
