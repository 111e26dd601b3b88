package location

import "github.com/fekuna/omnipos-warehouse-service/internal/apperror"

var ErrBinCapacity = apperror.Conflict("bin capacity exceeded")
