package dto

type WarehouseFilters struct {
	IsActive *bool
	Country  string
	Search   string
	Page     int
	PageSize int
}

type WarehouseInput struct {
	Name      string
	Country   string
	Province  string
	District  string
	Address   string
	ManagerID string
	IsActive  bool
}
