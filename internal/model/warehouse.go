package model

type Warehouse struct {
	BaseModel
	Name      string  `db:"name" json:"name"`
	Country   string  `db:"country" json:"country"`
	Province  string  `db:"province" json:"province"`
	District  string  `db:"district" json:"district"`
	Address   string  `db:"address" json:"address"`
	ManagerID *string `db:"manager_id" json:"managerId"`
	IsActive  bool    `db:"is_active" json:"isActive"`
}

type Zone struct {
	BaseModel
	WarehouseID string `db:"warehouse_id" json:"warehouseId"`
	Name        string `db:"name" json:"name"`
	IsActive    bool   `db:"is_active" json:"isActive"`
}
