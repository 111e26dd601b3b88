package alert

import "github.com/fekuna/omnipos-warehouse-service/internal/apperror"

var ErrOpenAlertExists = apperror.Conflict("an unacknowledged alert of this type already exists")
