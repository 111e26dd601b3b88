package movement

import (
	"sort"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// StockDelta is a change to the stock counter of one (product, warehouse) pair.
type StockDelta struct {
	ProductID   string
	WarehouseID string
	Delta       int
}

// BinDelta is a change to the quantity a bin holds of one product.
type BinDelta struct {
	ProductID string
	BinCode   string
	Delta     int
}

// Effects is what a movement does to the stock counters and bin locations.
type Effects struct {
	Stock []StockDelta
	Bins  []BinDelta
}

func (e Effects) Empty() bool {
	return len(e.Stock) == 0 && len(e.Bins) == 0
}

// EffectsOf derives the effects of m from its type:
//
//	IN            +q, toBin +q
//	OUT           -q, fromBin -q
//	ADJUST        q (signed), toBin when set, else fromBin
//	TRANSFER_OUT  -q, fromBin -q
//	TRANSFER_IN   +q, toBin +q, only once completed
func EffectsOf(m *model.StockMovement) Effects {
	var delta int
	var binCode *string

	switch m.MovementType {
	case model.MovementIn:
		delta, binCode = m.Quantity, m.ToBinCode
	case model.MovementOut, model.MovementTransferOut:
		delta, binCode = -m.Quantity, m.FromBinCode
	case model.MovementAdjust:
		delta, binCode = m.Quantity, m.ToBinCode
		if binCode == nil {
			binCode = m.FromBinCode
		}
	case model.MovementTransferIn:
		if !m.TransferStatus {
			return Effects{}
		}
		delta, binCode = m.Quantity, m.ToBinCode
	default:
		return Effects{}
	}

	if delta == 0 {
		return Effects{}
	}
	e := Effects{Stock: []StockDelta{{ProductID: m.ProductID, WarehouseID: m.WarehouseID, Delta: delta}}}
	if binCode != nil && *binCode != "" {
		e.Bins = []BinDelta{{ProductID: m.ProductID, BinCode: *binCode, Delta: delta}}
	}
	return e
}

func (e Effects) Invert() Effects {
	out := Effects{
		Stock: make([]StockDelta, len(e.Stock)),
		Bins:  make([]BinDelta, len(e.Bins)),
	}
	for i, d := range e.Stock {
		d.Delta = -d.Delta
		out.Stock[i] = d
	}
	for i, d := range e.Bins {
		d.Delta = -d.Delta
		out.Bins[i] = d
	}
	return out
}

// Merge nets the deltas of all given effects per key and drops zeros. The
// result is sorted so that writers always lock rows in the same order.
func Merge(all ...Effects) Effects {
	type stockKey struct{ product, warehouse string }
	type binKey struct{ product, bin string }

	stock := map[stockKey]int{}
	bins := map[binKey]int{}
	for _, e := range all {
		for _, d := range e.Stock {
			stock[stockKey{d.ProductID, d.WarehouseID}] += d.Delta
		}
		for _, d := range e.Bins {
			bins[binKey{d.ProductID, d.BinCode}] += d.Delta
		}
	}

	var out Effects
	for k, v := range stock {
		if v != 0 {
			out.Stock = append(out.Stock, StockDelta{ProductID: k.product, WarehouseID: k.warehouse, Delta: v})
		}
	}
	for k, v := range bins {
		if v != 0 {
			out.Bins = append(out.Bins, BinDelta{ProductID: k.product, BinCode: k.bin, Delta: v})
		}
	}

	sort.Slice(out.Stock, func(i, j int) bool {
		a, b := out.Stock[i], out.Stock[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
	sort.Slice(out.Bins, func(i, j int) bool {
		a, b := out.Bins[i], out.Bins[j]
		if a.BinCode != b.BinCode {
			return a.BinCode < b.BinCode
		}
		return a.ProductID < b.ProductID
	})
	return out
}
