package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperror"
	"github.com/fekuna/omnipos-warehouse-service/internal/audit"
	"github.com/fekuna/omnipos-warehouse-service/internal/category"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/search"
	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	"github.com/fekuna/omnipos-warehouse-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName     = "products"
	listCacheTTL  = 5 * time.Minute
	listKeyPrefix = "products:list:"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"id":          { "type": "keyword" },
			"categoryId":  { "type": "keyword" },
			"name":        { "type": "text" },
			"description": { "type": "text" },
			"sku":         { "type": "keyword" },
			"price":       { "type": "double" },
			"isActive":    { "type": "boolean" },
			"createdAt":   { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo       product.Repository
	categories category.Repository
	cache      *cache.RedisClient
	es         *search.Client
	audit      audit.Recorder
	logger     logger.ZapLogger
}

// NewProductUseCase builds the product use case. cache and es may be nil.
func NewProductUseCase(
	repo product.Repository,
	categories category.Repository,
	cache *cache.RedisClient,
	es *search.Client,
	auditor audit.Recorder,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		es:         es,
		audit:      auditor,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	if err := uc.validate(ctx, sku, input.Name, input.CategoryID); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, apperror.Validation("price must not be negative")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, sku, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.Conflict("SKU already exists")
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:  optional(input.CategoryID),
		SKU:         sku,
		Name:        strings.TrimSpace(input.Name),
		Description: optional(input.Description),
		Price:       input.Price,
		ImageURL:    optional(input.ImageURL),
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	uc.audit.Record(ctx, model.AuditCreate, audit.EntityProduct, p.ID, p)
	return p, nil
}

func (uc *productUseCase) validate(ctx context.Context, sku, name, categoryID string) error {
	if sku == "" {
		return apperror.Validation("sku is required")
	}
	if strings.TrimSpace(name) == "" {
		return apperror.Validation("product name is required")
	}
	if categoryID == "" {
		return nil
	}
	cat, err := uc.categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return apperror.NotFound("category")
	}
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product")
	}
	return p, nil
}

type cachedPage struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	// 1. Cache lookup
	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			var page cachedPage
			hit, err := uc.cache.GetJSON(ctx, cacheKey, &page)
			if err != nil {
				uc.logger.Warn("product cache read failed", zap.Error(err))
			}
			if hit {
				return page.Products, page.Count, nil
			}
		}
	}

	// 2. Full text search
	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	// 3. Database
	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedPage{Products: products, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}

	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku", "description"},
			},
		},
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"categoryId": filters.CategoryID}})
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"isActive": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		q["from"] = (filters.Page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listKeyPrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if _, err := uc.cache.DeletePattern(ctx, listKeyPrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	if err := uc.validate(ctx, sku, input.Name, input.CategoryID); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, apperror.Validation("price must not be negative")
	}

	if p.SKU != sku {
		unique, err := uc.repo.IsSKUUnique(ctx, sku, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperror.Conflict("SKU already exists")
		}
	}

	p.CategoryID = optional(input.CategoryID)
	p.SKU = sku
	p.Name = strings.TrimSpace(input.Name)
	p.Description = optional(input.Description)
	p.Price = input.Price
	p.ImageURL = optional(input.ImageURL)
	p.IsActive = input.IsActive
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	uc.audit.Record(ctx, model.AuditUpdate, audit.EntityProduct, p.ID, p)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateProductCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	uc.audit.Record(ctx, model.AuditDelete, audit.EntityProduct, id, nil)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
