// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	SKU          string   `json:"sku" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	ShortDesc    string   `json:"short_description"`
	BasePrice    int64    `json:"base_price" binding:"required,min=0"`
	Category     Category `json:"category" binding:"required"`
	LeadTimeDays int      `json:"lead_time_days"`
	IsActive     *bool    `json:"is_active"`
	IsFeatured   bool     `json:"is_featured"`

	ModelURL        string `json:"model_url"`
	ModelFormat     string `json:"model_format"`
	ModelPreviewURL string `json:"model_preview_url"`

	Materials []MaterialOptionInput `json:"materials"`
	Colors    []ColorOptionInput    `json:"colors"`
	Fabrics   []FabricOptionInput   `json:"fabrics"`
	Sizes     []SizeOptionInput     `json:"sizes"`
}

// UpdateProductRequest represents product update data
type UpdateProductRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	ShortDesc    *string   `json:"short_description"`
	BasePrice    *int64    `json:"base_price" binding:"omitempty,min=0"`
	Category     *Category `json:"category"`
	LeadTimeDays *int      `json:"lead_time_days" binding:"omitempty,min=1"`
	IsActive     *bool     `json:"is_active"`
	IsFeatured   *bool     `json:"is_featured"`

	ModelURL        *string `json:"model_url"`
	ModelFormat     *string `json:"model_format"`
	ModelPreviewURL *string `json:"model_preview_url"`
}

// MaterialOptionInput is an option row supplied at product creation
type MaterialOptionInput struct {
	Name          string `json:"name" binding:"required"`
	PriceModifier int64  `json:"price_modifier"`
	IsDefault     bool   `json:"is_default"`
}

// ColorOptionInput is a color row supplied at product creation
type ColorOptionInput struct {
	Name          string `json:"name" binding:"required"`
	HexCode       string `json:"hex_code"`
	PriceModifier int64  `json:"price_modifier"`
	IsDefault     bool   `json:"is_default"`
}

// FabricOptionInput is a fabric row supplied at product creation
type FabricOptionInput struct {
	Name           string `json:"name" binding:"required"`
	FabricCategory string `json:"fabric_category" binding:"required"`
	PriceModifier  int64  `json:"price_modifier"`
	IsDefault      bool   `json:"is_default"`
}

// SizeOptionInput is a size row supplied at product creation
type SizeOptionInput struct {
	Label     string `json:"label" binding:"required"`
	BasePrice int64  `json:"base_price" binding:"required,min=0"`
	WidthCM   int    `json:"width_cm"`
	DepthCM   int    `json:"depth_cm"`
	HeightCM  int    `json:"height_cm"`
	IsDefault bool   `json:"is_default"`
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int      `form:"page,default=1"`
	Limit      int      `form:"limit,default=20"`
	Category   Category `form:"category"`
	Featured   *bool    `form:"featured"`
	ActiveOnly bool     `form:"active_only,default=true"`
	Search     string   `form:"search"`
	SortBy     string   `form:"sort_by,default=created_at"`
	SortOrder  string   `form:"sort_order,default=desc"`
}

// ProductListResponse represents products with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProduct retrieves a product with its full option catalog
func (s *Service) GetProduct(id uint) (*Product, error) {
	var p Product
	result := s.db.
		Preload("Materials").
		Preload("Colors").
		Preload("Fabrics").
		Preload("Sizes").
		Preload("Images").
		First(&p, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &p, nil
}

// GetProductBySlug retrieves an active product by its URL slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var p Product
	result := s.db.
		Preload("Materials").
		Preload("Colors").
		Preload("Fabrics").
		Preload("Sizes").
		Preload("Images").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", slug)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &p, nil
}

// ListProducts retrieves products with filtering and pagination
func (s *Service) ListProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Images")

	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if req.Category != "" {
		if !req.Category.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown category: %s", req.Category))
		}
		query = query.Where("category = ?", req.Category)
	}
	if req.Featured != nil {
		query = query.Where("is_featured = ?", *req.Featured)
	}
	if req.Search != "" {
		like := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// CreateProduct creates a product with its option catalog
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	if !req.Category.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown category: %s", req.Category))
	}
	if req.BasePrice < 0 {
		return nil, apperrors.BadRequest("base price must not be negative")
	}
	leadTime := req.LeadTimeDays
	if leadTime < 1 {
		leadTime = s.config.Commerce.DefaultLeadTimeDays
	}
	if err := validateSingleDefault(req); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p := Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Slug:            s.generateSlug(req.Name),
		Description:     req.Description,
		ShortDesc:       req.ShortDesc,
		BasePrice:       req.BasePrice,
		Category:        req.Category,
		LeadTimeDays:    leadTime,
		IsActive:        isActive,
		IsFeatured:      req.IsFeatured,
		ModelURL:        req.ModelURL,
		ModelFormat:     req.ModelFormat,
		ModelPreviewURL: req.ModelPreviewURL,
	}

	for _, m := range req.Materials {
		p.Materials = append(p.Materials, MaterialOption{
			Name: m.Name, PriceModifier: m.PriceModifier, IsDefault: m.IsDefault,
		})
	}
	for _, c := range req.Colors {
		p.Colors = append(p.Colors, ColorOption{
			Name: c.Name, HexCode: c.HexCode, PriceModifier: c.PriceModifier, IsDefault: c.IsDefault,
		})
	}
	for _, f := range req.Fabrics {
		p.Fabrics = append(p.Fabrics, FabricOption{
			Name: f.Name, FabricCategory: f.FabricCategory, PriceModifier: f.PriceModifier, IsDefault: f.IsDefault,
		})
	}
	for _, sz := range req.Sizes {
		p.Sizes = append(p.Sizes, SizeOption{
			Label: sz.Label, BasePrice: sz.BasePrice,
			WidthCM: sz.WidthCM, DepthCM: sz.DepthCM, HeightCM: sz.HeightCM,
			IsDefault: sz.IsDefault,
		})
	}

	if err := s.db.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("a product with this SKU or slug already exists", err)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

// UpdateProduct updates product attributes (not its option catalog)
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ShortDesc != nil {
		updates["short_desc"] = *req.ShortDesc
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, apperrors.BadRequest("base price must not be negative")
		}
		updates["base_price"] = *req.BasePrice
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown category: %s", *req.Category))
		}
		updates["category"] = *req.Category
	}
	if req.LeadTimeDays != nil {
		updates["lead_time_days"] = *req.LeadTimeDays
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.ModelURL != nil {
		updates["model_url"] = *req.ModelURL
	}
	if req.ModelFormat != nil {
		updates["model_format"] = *req.ModelFormat
	}
	if req.ModelPreviewURL != nil {
		updates["model_preview_url"] = *req.ModelPreviewURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(p).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflict("a product with this slug already exists", err)
			}
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return s.GetProduct(id)
}

// DeleteProduct removes a product. Deletion is blocked while order items
// reference the product; cart items referencing it are removed with it.
func (s *Service) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	var orderRefs int64
	if err := s.db.Table("order_items").Where("product_id = ?", id).Count(&orderRefs).Error; err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if orderRefs > 0 {
		return apperrors.InvalidStatef("product %d is referenced by %d order item(s) and cannot be deleted", id, orderRefs)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM cart_items WHERE product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove cart references: %w", err)
		}
		if err := tx.Delete(&Product{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

// generateSlug generates a URL-friendly slug from the product name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"base_price": true,
		"name":       true,
	}
	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// validateSingleDefault rejects option groups carrying more than one default flag.
func validateSingleDefault(req *CreateProductRequest) error {
	count := 0
	for _, m := range req.Materials {
		if m.IsDefault {
			count++
		}
	}
	if count > 1 {
		return apperrors.BadRequest("at most one material may be flagged default")
	}
	count = 0
	for _, c := range req.Colors {
		if c.IsDefault {
			count++
		}
	}
	if count > 1 {
		return apperrors.BadRequest("at most one color may be flagged default")
	}
	count = 0
	for _, f := range req.Fabrics {
		if f.IsDefault {
			count++
		}
	}
	if count > 1 {
		return apperrors.BadRequest("at most one fabric may be flagged default")
	}
	count = 0
	for _, sz := range req.Sizes {
		if sz.IsDefault {
			count++
		}
	}
	if count > 1 {
		return apperrors.BadRequest("at most one size may be flagged default")
	}
	return nil
}
