package dto

import "github.com/fekuna/omnipos-warehouse-service/internal/model"

type UserFilters struct {
	Role        model.Role
	WarehouseID string
	IsActive    *bool
	Search      string // full name or email
	Page        int
	PageSize    int
}

// UserInput is shared by create and full-replace update. On update an empty
// Password keeps the current hash.
type UserInput struct {
	FullName    string
	Email       string
	Password    string
	Role        model.Role
	WarehouseID string
	IsActive    bool
}
