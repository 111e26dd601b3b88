package dto

type LocationFilters struct {
	ProductID   string
	BinCode     string
	WarehouseID string
	Page        int
	PageSize    int
}

type LocationInput struct {
	ProductID string
	BinCode   string
	Quantity  int
}
