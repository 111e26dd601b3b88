package memstore

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	binDTO "github.com/fekuna/omnipos-warehouse-service/internal/bin/dto"
	categoryDTO "github.com/fekuna/omnipos-warehouse-service/internal/category/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	locationDTO "github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	productDTO "github.com/fekuna/omnipos-warehouse-service/internal/product/dto"
	warehouseDTO "github.com/fekuna/omnipos-warehouse-service/internal/warehouse/dto"
	zoneDTO "github.com/fekuna/omnipos-warehouse-service/internal/zone/dto"
)

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) FindAll(_ context.Context, f *productDTO.ProductFilters) ([]model.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, id := range sortedKeys(r.s.products) {
		p := r.s.products[id]
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.SearchQuery != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(f.SearchQuery)) {
			continue
		}
		out = append(out, p)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	return r.Create(ctx, p)
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) IsSKUUnique(_ context.Context, sku, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.products {
		if id != excludeID && p.SKU == sku {
			return false, nil
		}
	}
	return true, nil
}

type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) FindByID(_ context.Context, id string) (*model.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) FindAll(_ context.Context, f *warehouseDTO.WarehouseFilters) ([]model.Warehouse, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Warehouse
	for _, id := range sortedKeys(r.s.warehouses) {
		w := r.s.warehouses[id]
		if f.IsActive != nil && w.IsActive != *f.IsActive {
			continue
		}
		if f.Country != "" && w.Country != f.Country {
			continue
		}
		out = append(out, w)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *WarehouseRepo) Update(ctx context.Context, w *model.Warehouse) error {
	return r.Create(ctx, w)
}

// Delete refuses while zones, bins or stock rows still reference the
// warehouse, as the foreign keys do.
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, z := range r.s.zones {
		if z.WarehouseID == id {
			return apperror.Conflict("warehouse still has zones, bins or stock")
		}
	}
	for _, b := range r.s.bins {
		if b.WarehouseID == id {
			return apperror.Conflict("warehouse still has zones, bins or stock")
		}
	}
	for k := range r.s.stock {
		if k.warehouse == id {
			return apperror.Conflict("warehouse still has zones, bins or stock")
		}
	}
	delete(r.s.warehouses, id)
	return nil
}

type BinRepo struct{ s *Store }

func (r *BinRepo) Create(_ context.Context, b *model.Bin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bins[b.Code] = *b
	return nil
}

func (r *BinRepo) FindByCode(_ context.Context, code string) (*model.Bin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bins[code]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BinRepo) FindAll(_ context.Context, f *binDTO.BinFilters) ([]model.Bin, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Bin
	for _, code := range sortedKeys(r.s.bins) {
		b := r.s.bins[code]
		if f.WarehouseID != "" && b.WarehouseID != f.WarehouseID {
			continue
		}
		if f.ZoneID != "" && b.ZoneID != f.ZoneID {
			continue
		}
		if f.IsActive != nil && b.IsActive != *f.IsActive {
			continue
		}
		out = append(out, b)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *BinRepo) Update(ctx context.Context, b *model.Bin) error {
	return r.Create(ctx, b)
}

func (r *BinRepo) Delete(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.bins, code)
	for id, l := range r.s.locations {
		if l.BinCode == code {
			delete(r.s.locations, id)
		}
	}
	return nil
}

type LocationRepo struct{ s *Store }

func (r *LocationRepo) Create(_ context.Context, l *model.ProductLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bins[l.BinCode]; ok && b.Capacity > 0 {
		used := r.s.sumBinLocked(l.BinCode)
		if prev, ok := r.s.locations[l.ID]; ok && prev.BinCode == l.BinCode {
			used -= prev.Quantity
		}
		if used+l.Quantity > b.Capacity {
			return location.ErrBinCapacity
		}
	}
	r.s.locations[l.ID] = *l
	return nil
}

func (r *LocationRepo) FindByID(_ context.Context, id string) (*model.ProductLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) FindByProductAndBin(_ context.Context, productID, binCode string) (*model.ProductLocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.locations {
		if l.ProductID == productID && l.BinCode == binCode {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) FindAll(_ context.Context, f *locationDTO.LocationFilters) ([]model.ProductLocation, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ProductLocation
	for _, id := range sortedKeys(r.s.locations) {
		l := r.s.locations[id]
		if f.ProductID != "" && l.ProductID != f.ProductID {
			continue
		}
		if f.BinCode != "" && l.BinCode != f.BinCode {
			continue
		}
		if f.WarehouseID != "" && r.s.bins[l.BinCode].WarehouseID != f.WarehouseID {
			continue
		}
		out = append(out, l)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *LocationRepo) Update(ctx context.Context, l *model.ProductLocation) error {
	return r.Create(ctx, l)
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.locations, id)
	return nil
}

func (r *LocationRepo) SumQuantityByBin(_ context.Context, binCode string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sumBinLocked(binCode), nil
}

func (s *Store) sumBinLocked(binCode string) int {
	total := 0
	for _, l := range s.locations {
		if l.BinCode == binCode {
			total += l.Quantity
		}
	}
	return total
}

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) FindAll(_ context.Context, f *categoryDTO.CategoryFilters) ([]model.Category, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Category
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, c)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.Create(ctx, c)
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepo) CountProducts(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

type ZoneRepo struct{ s *Store }

func (r *ZoneRepo) Create(_ context.Context, z *model.Zone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.zones[z.ID] = *z
	return nil
}

func (r *ZoneRepo) FindByID(_ context.Context, id string) (*model.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	z, ok := r.s.zones[id]
	if !ok {
		return nil, nil
	}
	return &z, nil
}

func (r *ZoneRepo) FindAll(_ context.Context, f *zoneDTO.ZoneFilters) ([]model.Zone, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Zone
	for _, id := range sortedKeys(r.s.zones) {
		z := r.s.zones[id]
		if f.WarehouseID != "" && z.WarehouseID != f.WarehouseID {
			continue
		}
		if f.IsActive != nil && z.IsActive != *f.IsActive {
			continue
		}
		out = append(out, z)
	}
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *ZoneRepo) Update(ctx context.Context, z *model.Zone) error {
	return r.Create(ctx, z)
}

func (r *ZoneRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bins {
		if b.ZoneID == id {
			return apperror.Conflict("zone still has bins")
		}
	}
	delete(r.s.zones, id)
	return nil
}
