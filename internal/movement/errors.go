package movement

import "github.com/fekuna/omnipos-warehouse-service/internal/apperror"

var (
	ErrInsufficientStock    = apperror.New(apperror.CodeInsufficientStock, "insufficient stock")
	ErrInsufficientBinStock = apperror.New(apperror.CodeInsufficientStock, "insufficient stock in bin")
	ErrBinCapacity          = apperror.Conflict("bin capacity exceeded")
	ErrTransferCompleted    = apperror.Conflict("transfer already completed")
	ErrTransferLegExists    = apperror.Conflict("transfer leg already recorded")
)
