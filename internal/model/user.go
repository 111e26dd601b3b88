package model

type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleManager        Role = "Manager"
	RoleClerk          Role = "Clerk"
	RoleGeneralManager Role = "General_Manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleClerk, RoleGeneralManager:
		return true
	}
	return false
}

type User struct {
	BaseModel
	FullName     string  `db:"full_name" json:"fullName"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Role         Role    `db:"role" json:"role"`
	WarehouseID  *string `db:"warehouse_id" json:"warehouseId"`
	IsActive     bool    `db:"is_active" json:"isActive"`
}
