package model

import "time"

// Bin is a storage slot inside a zone. Bins are addressed by their code.
type Bin struct {
	Code        string    `db:"code" json:"code"`
	WarehouseID string    `db:"warehouse_id" json:"warehouseId"`
	ZoneID      string    `db:"zone_id" json:"zoneId"`
	Capacity    int       `db:"capacity" json:"capacity"` // 0 means unbounded
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type ProductLocation struct {
	ID         string    `db:"id" json:"id"`
	ProductID  string    `db:"product_id" json:"productId"`
	BinCode    string    `db:"bin_code" json:"binCode"`
	Quantity   int       `db:"quantity" json:"quantity"`
	AssignedAt time.Time `db:"assigned_at" json:"assignedAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
