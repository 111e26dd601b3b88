package movement

import (
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestEffectsOf(t *testing.T) {
	cases := []struct {
		name  string
		m     model.StockMovement
		stock int
		bin   string
	}{
		{"in lands in toBin", model.StockMovement{MovementType: model.MovementIn, Quantity: 10, ToBinCode: strPtr("B1")}, 10, "B1"},
		{"out leaves fromBin", model.StockMovement{MovementType: model.MovementOut, Quantity: 4, FromBinCode: strPtr("B1")}, -4, "B1"},
		{"adjust prefers toBin", model.StockMovement{MovementType: model.MovementAdjust, Quantity: -3, FromBinCode: strPtr("B1"), ToBinCode: strPtr("B2")}, -3, "B2"},
		{"adjust falls back to fromBin", model.StockMovement{MovementType: model.MovementAdjust, Quantity: 7, FromBinCode: strPtr("B1")}, 7, "B1"},
		{"transfer out", model.StockMovement{MovementType: model.MovementTransferOut, Quantity: 30, FromBinCode: strPtr("B1")}, -30, "B1"},
		{"completed transfer in", model.StockMovement{MovementType: model.MovementTransferIn, Quantity: 30, ToBinCode: strPtr("B9"), TransferStatus: true}, 30, "B9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.m.ProductID, tc.m.WarehouseID = "p1", "w1"
			e := EffectsOf(&tc.m)

			assert.Equal(t, []StockDelta{{ProductID: "p1", WarehouseID: "w1", Delta: tc.stock}}, e.Stock)
			assert.Equal(t, []BinDelta{{ProductID: "p1", BinCode: tc.bin, Delta: tc.stock}}, e.Bins)
		})
	}
}

func TestEffectsOfPendingTransferInIsEmpty(t *testing.T) {
	m := &model.StockMovement{ProductID: "p1", WarehouseID: "w2", MovementType: model.MovementTransferIn, Quantity: 30}
	assert.True(t, EffectsOf(m).Empty())
}

func TestEffectsOfWithoutBin(t *testing.T) {
	m := &model.StockMovement{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 5}
	e := EffectsOf(m)
	assert.Len(t, e.Stock, 1)
	assert.Empty(t, e.Bins)
}

func TestMergeNetsReplacement(t *testing.T) {
	old := &model.StockMovement{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 100, ToBinCode: strPtr("B1")}
	updated := *old
	updated.Quantity = 60
	updated.ToBinCode = strPtr("B2")

	e := Merge(EffectsOf(old).Invert(), EffectsOf(&updated))

	assert.Equal(t, []StockDelta{{ProductID: "p1", WarehouseID: "w1", Delta: -40}}, e.Stock)
	assert.Equal(t, []BinDelta{
		{ProductID: "p1", BinCode: "B1", Delta: -100},
		{ProductID: "p1", BinCode: "B2", Delta: 60},
	}, e.Bins)
}

func TestMergeDropsZeroes(t *testing.T) {
	m := &model.StockMovement{ProductID: "p1", WarehouseID: "w1", MovementType: model.MovementIn, Quantity: 8, ToBinCode: strPtr("B1")}
	assert.True(t, Merge(EffectsOf(m), EffectsOf(m).Invert()).Empty())
}
