package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auromart/commerce-service/internal/auth"
	"github.com/auromart/commerce-service/internal/model"
	"github.com/auromart/commerce-service/internal/product"
	"github.com/auromart/commerce-service/internal/product/dto"
	"github.com/auromart/commerce-service/pkg/apperrors"
	"github.com/auromart/commerce-service/pkg/cache"
	"github.com/auromart/commerce-service/pkg/logger"
)

const listCacheTTL = 5 * time.Minute

type productUseCase struct {
	repo     product.Repository
	partners product.PartnershipChecker
	cache    cache.ListCache
	logger   logger.Logger
}

func NewProductUseCase(repo product.Repository, partners product.PartnershipChecker, listCache cache.ListCache, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		partners: partners,
		cache:    listCache,
		logger:   log,
	}
}

func (uc *productUseCase) Create(ctx context.Context, actor auth.Actor, input *dto.CreateProductInput) (*model.Product, error) {
	if !actor.Role.CanFulfillOrders() {
		return nil, apperrors.Unauthorized("role %s cannot own products", actor.Role)
	}
	if input.SKU == "" {
		return nil, apperrors.Validation("sku is required")
	}
	if input.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if input.Unit == "" {
		return nil, apperrors.Validation("unit is required")
	}
	if input.BasePrice.IsNegative() {
		return nil, apperrors.Validation("base_price cannot be negative")
	}

	existing, err := uc.repo.FindBySKU(ctx, actor.UserID, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Validation("sku %s already exists", input.SKU)
	}

	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:     actor.UserID,
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Unit:        input.Unit,
		BasePrice:   input.BasePrice,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidateListCache(ctx, actor.UserID)

	uc.logger.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("owner_id", p.OwnerID),
		zap.String("sku", p.SKU))
	return p, nil
}

func (uc *productUseCase) Get(ctx context.Context, actor auth.Actor, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product %s not found", id)
	}
	return p, nil
}

func (uc *productUseCase) List(ctx context.Context, actor auth.Actor, filters *dto.ProductFilters) ([]model.Product, int, error) {
	filters.OwnerID = actor.UserID

	cacheKey := uc.listCacheKey(filters)
	if cacheKey != "" {
		if data, err := uc.cache.GetBytes(ctx, cacheKey); err == nil && data != nil {
			var cached struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		payload := struct {
			Products []model.Product
			Count    int
		}{products, count}
		if data, err := json.Marshal(payload); err == nil {
			if err := uc.cache.SetBytes(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("product list cache write failed", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) Update(ctx context.Context, actor auth.Actor, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product %s not found", input.ID)
	}
	if p.OwnerID != actor.UserID {
		return nil, apperrors.Unauthorized("product belongs to another seller")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Category != nil {
		p.Category = input.Category
	}
	if input.Unit != nil {
		p.Unit = *input.Unit
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, apperrors.Validation("base_price cannot be negative")
		}
		p.BasePrice = *input.BasePrice
	}
	if input.ImageURL != nil {
		p.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidateListCache(ctx, actor.UserID)
	return p, nil
}

// Deactivate is a soft delete. The row stays so order item snapshots
// keep a valid reference.
func (uc *productUseCase) Deactivate(ctx context.Context, actor auth.Actor, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.NotFound("product %s not found", id)
	}
	if p.OwnerID != actor.UserID {
		return apperrors.Unauthorized("product belongs to another seller")
	}
	if !p.IsActive {
		return nil
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return err
	}
	uc.invalidateListCache(ctx, actor.UserID)

	uc.logger.Info("product deactivated",
		zap.String("product_id", p.ID),
		zap.String("owner_id", p.OwnerID))
	return nil
}

func (uc *productUseCase) BrowseCatalog(ctx context.Context, actor auth.Actor, partnerID string) ([]model.CatalogEntry, error) {
	if partnerID == actor.UserID {
		return uc.repo.Catalog(ctx, partnerID)
	}

	ok, err := uc.partners.ArePartners(ctx, actor.UserID, partnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthorized("no approved partnership with %s", partnerID)
	}
	return uc.repo.Catalog(ctx, partnerID)
}

func (uc *productUseCase) listCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%s:%x", filters.OwnerID, md5.Sum(data))
}

func (uc *productUseCase) invalidateListCache(ctx context.Context, ownerID string) {
	pattern := fmt.Sprintf("products:list:%s:*", ownerID)
	if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
