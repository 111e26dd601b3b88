package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID  string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

type UpdateProductInput struct {
	ID          string
	CategoryID  string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	IsActive    bool
}
