package dto

type ProductFilters struct {
	CategoryID  string
	IsActive    *bool
	SearchQuery string // name, sku or description
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
