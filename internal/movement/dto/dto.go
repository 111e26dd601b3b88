package dto

import (
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type MovementFilters struct {
	ProductID      string
	WarehouseID    string
	MovementType   model.MovementType
	TransferCode   string
	TransferStatus *bool
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

type MovementInput struct {
	ProductID    string
	WarehouseID  string
	MovementType model.MovementType
	Quantity     int
	FromBinCode  *string
	ToBinCode    *string
	Reason       string
	TransferCode string
	// TransferStatus is only read on update of a TRANSFER_IN leg.
	TransferStatus *bool
	ReferenceType  string
	ReferenceID    string
}
