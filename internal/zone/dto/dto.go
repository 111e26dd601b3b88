package dto

type ZoneFilters struct {
	WarehouseID string
	IsActive    *bool
	Page        int
	PageSize    int
}

type ZoneInput struct {
	WarehouseID string
	Name        string
	IsActive    bool
}
