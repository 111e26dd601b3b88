package model

import "time"

const (
	StockLevelIn  = "In Stock"
	StockLevelLow = "Low Stock"
	StockLevelOut = "Out of Stock"
)

// StockStatus is the materialized quantity of a product in a warehouse.
type StockStatus struct {
	WarehouseID string    `db:"warehouse_id" json:"warehouseId"`
	ProductID   string    `db:"product_id" json:"productId"`
	Quantity    int       `db:"quantity" json:"quantity"`
	StockLevel  string    `db:"-" json:"stockLevel"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
