package dto

type StatusFilters struct {
	WarehouseID string
	ProductID   string
	Level       string // one of the model.StockLevel* labels
	Threshold   int    // filled in by the use case
	Page        int
	PageSize    int
}
