package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService は商品サービスのインターフェース
type ProductService interface {
	CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters ProductFilters) (*model.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductFilters は商品フィルタリング条件
type ProductFilters struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Page     int // ページ番号（1から開始）
	Limit    int // 1ページあたりの件数
}

// productServiceImpl は商品サービスの実装
type productServiceImpl struct {
	db *gorm.DB
}

// NewProductService は新しい商品サービスを作成
func NewProductService(db *gorm.DB) ProductService {
	return &productServiceImpl{db: db}
}

// CreateProduct は新しい商品を作成
func (s *productServiceImpl) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct は商品を取得
func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ListProducts は商品一覧を取得（ページング付き）
func (s *productServiceImpl) ListProducts(ctx context.Context, filters ProductFilters) (*model.ProductListResponse, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10 // デフォルト値
	}

	query := s.db.WithContext(ctx).Model(&model.Product{})

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.MinPrice.IsPositive() {
		query = query.Where("price >= ?", filters.MinPrice)
	}
	if filters.MaxPrice.IsPositive() {
		query = query.Where("price <= ?", filters.MaxPrice)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * limit

	var products []model.Product
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &model.ProductListResponse{
		Products:   products,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalItems: int(totalCount),
	}, nil
}

// UpdateProduct は商品を更新
func (s *productServiceImpl) UpdateProduct(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	product.ImageURL = req.ImageURL

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct は商品を削除
func (s *productServiceImpl) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
