package memstore

import (
	"context"
	"time"

	alertDTO "github.com/fekuna/omnipos-warehouse-service/internal/alert/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/movement"
	movementDTO "github.com/fekuna/omnipos-warehouse-service/internal/movement/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/stock"
	stockDTO "github.com/fekuna/omnipos-warehouse-service/internal/stock/dto"
	"github.com/google/uuid"
)

type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *model.StockMovement, effects movement.Effects) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.TransferCode != nil && r.s.findLegLocked(*m.TransferCode, m.MovementType) != nil {
		return movement.ErrTransferLegExists
	}
	if err := r.s.applyLocked(effects); err != nil {
		return err
	}
	r.s.movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) FindByID(_ context.Context, id string) (*model.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) FindTransferLeg(_ context.Context, code string, t model.MovementType) (*model.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findLegLocked(code, t), nil
}

func (s *Store) findLegLocked(code string, t model.MovementType) *model.StockMovement {
	for _, m := range s.movements {
		if m.MovementType == t && m.TransferCode != nil && *m.TransferCode == code {
			return &m
		}
	}
	return nil
}

func (r *MovementRepo) FindAll(_ context.Context, f *movementDTO.MovementFilters) ([]model.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.StockMovement
	for _, id := range sortedKeys(r.s.movements) {
		m := r.s.movements[id]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.TransferCode != "" && (m.TransferCode == nil || *m.TransferCode != f.TransferCode) {
			continue
		}
		if f.TransferStatus != nil && m.TransferStatus != *f.TransferStatus {
			continue
		}
		out = append(out, m)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *MovementRepo) Update(_ context.Context, m *model.StockMovement, effects movement.Effects) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.applyLocked(effects); err != nil {
		return err
	}
	r.s.movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) Delete(_ context.Context, id string, effects movement.Effects) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.applyLocked(effects); err != nil {
		return err
	}
	delete(r.s.movements, id)
	return nil
}

func (r *MovementRepo) CompleteTransfer(_ context.Context, in *model.StockMovement, outID string, effects movement.Effects) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.movements[in.ID].TransferStatus || r.s.movements[outID].TransferStatus {
		return movement.ErrTransferCompleted
	}
	if err := r.s.applyLocked(effects); err != nil {
		return err
	}
	out := r.s.movements[outID]
	out.TransferStatus = true
	out.UpdatedAt = in.UpdatedAt
	r.s.movements[outID] = out
	r.s.movements[in.ID] = *in
	return nil
}

// applyLocked checks every guard before touching anything, so a failing
// effect leaves the store unchanged.
func (s *Store) applyLocked(e movement.Effects) error {
	for _, d := range e.Stock {
		if s.stock[pairKey{d.ProductID, d.WarehouseID}].Quantity+d.Delta < 0 {
			return movement.ErrInsufficientStock
		}
	}
	pending := map[string]int{}
	for _, d := range e.Bins {
		if d.Delta < 0 {
			if s.locationLocked(d.ProductID, d.BinCode).Quantity+d.Delta < 0 {
				return movement.ErrInsufficientBinStock
			}
			continue
		}
		b := s.bins[d.BinCode]
		pending[d.BinCode] += d.Delta
		if b.Capacity > 0 && s.sumBinLocked(d.BinCode)+pending[d.BinCode] > b.Capacity {
			return movement.ErrBinCapacity
		}
	}

	now := time.Now().UTC()
	for _, d := range e.Stock {
		k := pairKey{d.ProductID, d.WarehouseID}
		st := s.stock[k]
		st.ProductID, st.WarehouseID = d.ProductID, d.WarehouseID
		st.Quantity += d.Delta
		st.UpdatedAt = now
		s.stock[k] = st
	}
	for _, d := range e.Bins {
		l := s.locationLocked(d.ProductID, d.BinCode)
		if l.ID == "" {
			l = model.ProductLocation{ID: uuid.New().String(), ProductID: d.ProductID, BinCode: d.BinCode, AssignedAt: now}
		}
		l.Quantity += d.Delta
		l.UpdatedAt = now
		s.locations[l.ID] = l
	}
	return nil
}

func (s *Store) locationLocked(productID, binCode string) model.ProductLocation {
	for _, l := range s.locations {
		if l.ProductID == productID && l.BinCode == binCode {
			return l
		}
	}
	return model.ProductLocation{}
}

type StockRepo struct{ s *Store }

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stock[pairKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StockRepo) FindAll(_ context.Context, f *stockDTO.StatusFilters) ([]model.StockStatus, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.StockStatus
	for _, st := range r.s.stock {
		if f.WarehouseID != "" && st.WarehouseID != f.WarehouseID {
			continue
		}
		if f.ProductID != "" && st.ProductID != f.ProductID {
			continue
		}
		if f.Level != "" && stock.Level(st.Quantity, f.Threshold) != f.Level {
			continue
		}
		out = append(out, st)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *StockRepo) Recompute(_ context.Context, productID, warehouseID string) (*model.StockStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, m := range r.s.movements {
		if m.ProductID != productID || m.WarehouseID != warehouseID {
			continue
		}
		for _, d := range movement.EffectsOf(&m).Stock {
			total += d.Delta
		}
	}
	if total < 0 {
		total = 0
	}
	st := model.StockStatus{ProductID: productID, WarehouseID: warehouseID, Quantity: total, UpdatedAt: time.Now().UTC()}
	r.s.stock[pairKey{productID, warehouseID}] = st
	return &st, nil
}

// SetQuantity overwrites the counter of a pair.
func (s *Store) SetQuantity(productID, warehouseID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[pairKey{productID, warehouseID}] = model.StockStatus{
		ProductID: productID, WarehouseID: warehouseID, Quantity: quantity, UpdatedAt: time.Now().UTC(),
	}
}

type AlertRepo struct{ s *Store }

func (r *AlertRepo) Create(_ context.Context, a *model.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !a.IsAcknowledged && r.s.hasOpenLocked(a.ProductID, a.WarehouseID, a.AlertType) {
		return apperror.Conflict("an unacknowledged alert of this type already exists")
	}
	r.s.alerts[a.ID] = *a
	return nil
}

func (r *AlertRepo) FindByID(_ context.Context, id string) (*model.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AlertRepo) FindAll(_ context.Context, f *alertDTO.AlertFilters) ([]model.Alert, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Alert
	for _, id := range sortedKeys(r.s.alerts) {
		a := r.s.alerts[id]
		if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
			continue
		}
		if f.ProductID != "" && a.ProductID != f.ProductID {
			continue
		}
		if f.AlertType != "" && a.AlertType != f.AlertType {
			continue
		}
		if f.IsAcknowledged != nil && a.IsAcknowledged != *f.IsAcknowledged {
			continue
		}
		out = append(out, a)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *AlertRepo) Update(_ context.Context, a *model.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.alerts[a.ID] = *a
	return nil
}

func (r *AlertRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.alerts, id)
	return nil
}

func (r *AlertRepo) HasOpen(_ context.Context, productID, warehouseID string, t model.AlertType) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.hasOpenLocked(productID, warehouseID, t), nil
}

func (s *Store) hasOpenLocked(productID, warehouseID string, t model.AlertType) bool {
	for _, a := range s.alerts {
		if a.ProductID == productID && a.WarehouseID == warehouseID && a.AlertType == t && !a.IsAcknowledged {
			return true
		}
	}
	return false
}
