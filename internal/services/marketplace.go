package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/clients/gcp"
	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

var ErrProductNotFound = errors.New("product not found")

// ProductInput is the create/update payload for a marketplace listing.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceCents  int64           `json:"price_cents"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Attributes  json.RawMessage `json:"attributes"`
}

type MarketplaceService interface {
	ListProducts(ctx context.Context, category string) ([]*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error)
	UploadProductImage(ctx context.Context, productID uuid.UUID, raw []byte) (*types.Product, error)
}

type marketplaceService struct {
	db            *gorm.DB
	log           *logger.Logger
	productRepo   repos.ProductRepo
	bucketService gcp.BucketService
}

func NewMarketplaceService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, bucketService gcp.BucketService) MarketplaceService {
	serviceLog := log.With("service", "MarketplaceService")
	return &marketplaceService{
		db:            db,
		log:           serviceLog,
		productRepo:   productRepo,
		bucketService: bucketService,
	}
}

func (ms *marketplaceService) ListProducts(ctx context.Context, category string) ([]*types.Product, error) {
	return ms.productRepo.ListActive(ctx, nil, strings.TrimSpace(category))
}

func (ms *marketplaceService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := ms.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func validateProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return fmt.Errorf("name required")
	}
	if input.PriceCents < 0 {
		return fmt.Errorf("price_cents must not be negative")
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}
	if len(input.Attributes) > 0 && !json.Valid(input.Attributes) {
		return fmt.Errorf("attributes must be valid json")
	}
	return nil
}

func (ms *marketplaceService) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	product := &types.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		Category:    input.Category,
		Active:      true,
	}
	if len(input.Attributes) > 0 {
		product.Attributes = datatypes.JSON(input.Attributes)
	}
	if _, err := ms.productRepo.Create(ctx, nil, []*types.Product{product}); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (ms *marketplaceService) UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}

	var out *types.Product
	if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := ms.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil {
			return ErrProductNotFound
		}
		fields := map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price_cents": input.PriceCents,
			"currency":    input.Currency,
			"category":    input.Category,
		}
		if len(input.Attributes) > 0 {
			fields["attributes"] = datatypes.JSON(input.Attributes)
		}
		if err := ms.productRepo.Update(ctx, tx, productID, fields); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		refreshed, err := ms.productRepo.GetByID(ctx, tx, productID)
		if err != nil || refreshed == nil {
			return fmt.Errorf("failed to reload product")
		}
		out = refreshed
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (ms *marketplaceService) UploadProductImage(ctx context.Context, productID uuid.UUID, raw []byte) (*types.Product, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	if ms.bucketService == nil {
		return nil, fmt.Errorf("image storage not configured")
	}

	product, err := ms.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldKey := strings.TrimSpace(product.ImageBucketKey)
	newKey := fmt.Sprintf("product_image/%s/%d.png", productID.String(), time.Now().UnixNano())
	if err := ms.bucketService.UploadFile(ctx, newKey, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}
	url := ms.bucketService.GetPublicURL(newKey)

	if err := ms.productRepo.Update(ctx, nil, productID, map[string]interface{}{
		"image_bucket_key": newKey,
		"image_url":        url,
	}); err != nil {
		return nil, fmt.Errorf("failed to store product image fields: %w", err)
	}

	if oldKey != "" && oldKey != newKey {
		if err := ms.bucketService.DeleteFile(ctx, oldKey); err != nil {
			ms.log.Warn("failed to delete old product image (ignored)", "oldKey", oldKey, "error", err)
		}
	}

	product.ImageBucketKey = newKey
	product.ImageURL = url
	return product, nil
}
