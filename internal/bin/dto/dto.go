package dto

type BinFilters struct {
	WarehouseID string
	ZoneID      string
	IsActive    *bool
	Page        int
	PageSize    int
}

type BinInput struct {
	Code        string
	WarehouseID string
	ZoneID      string
	Capacity    int
	IsActive    bool
}
