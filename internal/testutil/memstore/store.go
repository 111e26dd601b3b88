// Package memstore holds in-memory repositories for use case tests and the
// acceptance scenario. A single mutex makes every write atomic, which mirrors
// the transactional guarantees of the Postgres repositories.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type pairKey struct{ product, warehouse string }

type Store struct {
	mu         sync.Mutex
	categories map[string]model.Category
	products   map[string]model.Product
	warehouses map[string]model.Warehouse
	zones      map[string]model.Zone
	bins       map[string]model.Bin
	locations  map[string]model.ProductLocation
	movements  map[string]model.StockMovement
	stock      map[pairKey]model.StockStatus
	alerts     map[string]model.Alert
	users      map[string]model.User
}

func New() *Store {
	return &Store{
		categories: map[string]model.Category{},
		products:   map[string]model.Product{},
		warehouses: map[string]model.Warehouse{},
		zones:      map[string]model.Zone{},
		bins:       map[string]model.Bin{},
		locations:  map[string]model.ProductLocation{},
		movements:  map[string]model.StockMovement{},
		stock:      map[pairKey]model.StockStatus{},
		alerts:     map[string]model.Alert{},
		users:      map[string]model.User{},
	}
}

func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }
func (s *Store) Products() *ProductRepo     { return &ProductRepo{s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s} }
func (s *Store) Zones() *ZoneRepo           { return &ZoneRepo{s} }
func (s *Store) Bins() *BinRepo             { return &BinRepo{s} }
func (s *Store) Locations() *LocationRepo   { return &LocationRepo{s} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{s} }
func (s *Store) Stock() *StockRepo          { return &StockRepo{s} }
func (s *Store) Alerts() *AlertRepo         { return &AlertRepo{s} }
func (s *Store) Users() *UserRepo           { return &UserRepo{s} }

// Quantity returns the stock counter of a pair.
func (s *Store) Quantity(productID, warehouseID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[pairKey{productID, warehouseID}].Quantity
}

// BinQuantity returns how much of productID binCode holds.
func (s *Store) BinQuantity(productID, binCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.locations {
		if l.ProductID == productID && l.BinCode == binCode {
			return l.Quantity
		}
	}
	return 0
}

// Recorder collects audit entries in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []model.AuditLog
}

func (r *Recorder) Record(_ context.Context, action model.AuditAction, entity, entityID string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, model.AuditLog{Action: action, Entity: entity, EntityID: entityID})
}

// Actions lists the recorded actions for entity in order.
func (r *Recorder) Actions(entity string) []model.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditAction
	for _, e := range r.Entries {
		if e.Entity == entity {
			out = append(out, e.Action)
		}
	}
	return out
}

func page[T any](items []T, pageNum, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
