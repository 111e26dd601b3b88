package dto

import "github.com/fekuna/omnipos-warehouse-service/internal/model"

type AlertFilters struct {
	WarehouseID    string
	ProductID      string
	AlertType      model.AlertType
	IsAcknowledged *bool
	Page           int
	PageSize       int
}

type AlertInput struct {
	WarehouseID    string
	ProductID      string
	AlertType      model.AlertType
	Message        string
	IsAcknowledged bool
}
