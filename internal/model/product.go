package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID  *string         `db:"category_id" json:"categoryId"` // Nullable
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    *string         `db:"image_url" json:"imageUrl"`
	IsActive    bool            `db:"is_active" json:"isActive"`
}
