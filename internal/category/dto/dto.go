package dto

type CategoryFilters struct {
	IsActive *bool
	Search   string // name ILIKE
	Page     int
	PageSize int
}
