package model

import "time"

type MovementType string

const (
	MovementIn          MovementType = "IN"
	MovementOut         MovementType = "OUT"
	MovementAdjust      MovementType = "ADJUST"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

func (t MovementType) IsTransfer() bool {
	return t == MovementTransferIn || t == MovementTransferOut
}

type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	WarehouseID    string       `db:"warehouse_id" json:"warehouseId"`
	ProductID      string       `db:"product_id" json:"productId"`
	UserID         *string      `db:"user_id" json:"userId"` // nil for system events
	MovementType   MovementType `db:"movement_type" json:"movementType"`
	FromBinCode    *string      `db:"from_bin_code" json:"fromBinId"`
	ToBinCode      *string      `db:"to_bin_code" json:"toBinId"`
	Quantity       int          `db:"quantity" json:"quantity"` // signed for ADJUST
	Reason         string       `db:"reason" json:"reason"`
	TransferCode   *string      `db:"transfer_code" json:"transferCode"`
	TransferStatus bool         `db:"transfer_status" json:"transferStatus"`
	ReferenceType  *string      `db:"reference_type" json:"referenceType"`
	ReferenceID    *string      `db:"reference_id" json:"referenceId"`
	MovementDate   time.Time    `db:"movement_date" json:"movementDate"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}
