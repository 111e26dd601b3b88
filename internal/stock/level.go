package stock

import "github.com/fekuna/omnipos-warehouse-service/internal/model"

// DefaultLowThreshold is used when no threshold is configured.
const DefaultLowThreshold = 20

// Level labels a quantity against the low stock threshold.
func Level(quantity, threshold int) string {
	switch {
	case quantity <= 0:
		return model.StockLevelOut
	case quantity < threshold:
		return model.StockLevelLow
	default:
		return model.StockLevelIn
	}
}
