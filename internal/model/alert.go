package model

import "time"

type AlertType string

const (
	AlertLowStock   AlertType = "LOW_STOCK"
	AlertOutOfStock AlertType = "OUT_OF_STOCK"
)

func (t AlertType) Valid() bool {
	return t == AlertLowStock || t == AlertOutOfStock
}

type Alert struct {
	ID             string     `db:"id" json:"id"`
	WarehouseID    string     `db:"warehouse_id" json:"warehouseId"`
	ProductID      string     `db:"product_id" json:"productId"`
	AlertType      AlertType  `db:"alert_type" json:"alertType"`
	Message        string     `db:"message" json:"message"`
	IsAcknowledged bool       `db:"is_acknowledged" json:"isAcknowledged"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledgedAt"`
}
