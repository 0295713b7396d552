// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const guestCartTTL = 30 * 24 * time.Hour

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
	}
}

// AddItemRequest represents a cart line addition
type AddItemRequest struct {
	ProductID     uint                  `json:"product_id" binding:"required"`
	Configuration product.Configuration `json:"configuration"`
	Quantity      int                   `json:"quantity"`
}

// UpdateItemRequest replaces a line's quantity. Zero is legal and deletes
// the line, so the field must not be flagged required.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is a cart line enriched with catalog display data
type CartItemResponse struct {
	ID                   uint                  `json:"id"`
	ProductID            uint                  `json:"product_id"`
	ProductName          string                `json:"product_name"`
	ProductSKU           string                `json:"product_sku"`
	ProductImage         string                `json:"product_image,omitempty"`
	Configuration        product.Configuration `json:"configuration"`
	ConfigurationDisplay map[string]string     `json:"configuration_display"`
	Quantity             int                   `json:"quantity"`
	UnitPrice            int64                 `json:"unit_price"`
	LineTotal            int64                 `json:"line_total"`
}

// CartResponse is the full cart projection returned by every mutation
type CartResponse struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  int64              `json:"subtotal"`
	ItemCount int                `json:"item_count"`
	Currency  string             `json:"currency"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// GetCart returns the user's cart projection, creating the cart lazily.
func (s *Service) GetCart(userID uint) (*CartResponse, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(cart)
}

// AddItem adds a configured product to the user's cart. A line with a
// structurally identical configuration for the same product absorbs the added
// quantity; its unit price is refreshed from current catalog data either way.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperrors.BadRequest("quantity must be positive")
	}

	p, err := s.loadProduct(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperrors.InvalidStatef("product %d is not available for purchase", p.ID)
	}

	cfg := req.Configuration
	if cfg == nil {
		cfg = product.Configuration{}
	}
	unitPrice := product.ResolvePrice(p, cfg)

	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	item := CartItem{
		CartID:        cart.ID,
		ProductID:     p.ID,
		Configuration: cfg.Canonical(),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
	}

	// Single atomic upsert keyed on the line identity. A concurrent add of
	// the same configuration lands on the same row instead of a duplicate.
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "configuration"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"unit_price": unitPrice,
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetCart(userID)
}

// UpdateItem replaces a line's quantity. Zero deletes the line, negative is
// rejected.
func (s *Service) UpdateItem(userID uint, itemID uint, req *UpdateItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, apperrors.BadRequest("quantity must not be negative")
	}

	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart item", itemID)
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", err)
	}

	if req.Quantity == 0 {
		if err := s.db.Delete(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to delete cart item: %w", err)
		}
		return s.GetCart(userID)
	}

	// Refresh the unit price from current catalog data on every mutation.
	p, err := s.loadProduct(item.ProductID)
	if err != nil {
		return nil, err
	}
	cfg, err := product.ParseConfiguration(item.Configuration)
	if err != nil {
		return nil, fmt.Errorf("corrupt cart item configuration: %w", err)
	}

	updates := map[string]interface{}{
		"quantity":   req.Quantity,
		"unit_price": product.ResolvePrice(p, cfg),
	}
	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.GetCart(userID)
}

// RemoveItem deletes a line from the user's cart.
func (s *Service) RemoveItem(userID uint, itemID uint) (*CartResponse, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&CartItem{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("cart item", itemID)
	}
	return s.GetCart(userID)
}

// Clear removes all lines from the user's cart. Also invoked after a cart is
// converted into an order.
func (s *Service) Clear(userID uint) (*CartResponse, error) {
	cart, err := s.getOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.ClearByCartID(s.db, cart.ID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// ClearByCartID deletes all lines of a cart inside the caller's transaction.
func (s *Service) ClearByCartID(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetCartForCheckout loads the raw cart with items for order creation.
func (s *Service) GetCartForCheckout(userID uint) (*Cart, error) {
	return s.getOrCreateCart(userID)
}

// getOrCreateCart returns the user's cart, creating it on first access. The
// unique index on user_id collapses a concurrent duplicate create into a
// retry of the lookup.
func (s *Service) getOrCreateCart(userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	cart = Cart{UserID: userID}
	if err := s.db.Create(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing Cart
			if ferr := s.db.Preload("Items").Where("user_id = ?", userID).First(&existing).Error; ferr != nil {
				return nil, fmt.Errorf("failed to retrieve cart after create race: %w", ferr)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// buildResponse assembles the cart projection with catalog display data.
func (s *Service) buildResponse(cart *Cart) (*CartResponse, error) {
	resp := &CartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     []CartItemResponse{},
		Currency:  s.config.Commerce.CurrencyCode,
		UpdatedAt: cart.UpdatedAt,
	}

	for i := range cart.Items {
		item := &cart.Items[i]

		cfg, err := product.ParseConfiguration(item.Configuration)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart item configuration: %w", err)
		}

		line := CartItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Configuration: cfg,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			LineTotal:     item.LineTotal(),
		}

		p, err := s.loadProduct(item.ProductID)
		if err == nil {
			line.ProductName = p.Name
			line.ProductSKU = p.SKU
			line.ProductImage = p.PrimaryImageURL()
			line.ConfigurationDisplay = product.DescribeConfiguration(p, cfg)
		} else if !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}

		resp.Items = append(resp.Items, line)
		resp.Subtotal += line.LineTotal
		resp.ItemCount += line.Quantity
	}
	return resp, nil
}

func (s *Service) loadProduct(id uint) (*product.Product, error) {
	var p product.Product
	err := s.db.
		Preload("Materials").
		Preload("Colors").
		Preload("Fabrics").
		Preload("Sizes").
		Preload("Images").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// Guest carts live in Redis until the visitor signs in.

type guestCartLine struct {
	ProductID     uint                  `json:"product_id"`
	Configuration product.Configuration `json:"configuration"`
	Quantity      int                   `json:"quantity"`
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("guest_cart:%s", sessionID)
}

// AddGuestItem appends a line to a session-scoped guest cart. Lines with a
// structurally identical configuration merge, mirroring the user cart rule.
func (s *Service) AddGuestItem(ctx context.Context, sessionID string, req *AddItemRequest) error {
	if sessionID == "" {
		return apperrors.BadRequest("session id is required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return apperrors.BadRequest("quantity must be positive")
	}

	p, err := s.loadProduct(req.ProductID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return apperrors.InvalidStatef("product %d is not available for purchase", p.ID)
	}

	cfg := req.Configuration
	if cfg == nil {
		cfg = product.Configuration{}
	}

	lines, err := s.readGuestCart(ctx, sessionID)
	if err != nil {
		return err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == req.ProductID && lines[i].Configuration.Equal(cfg) {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, guestCartLine{ProductID: req.ProductID, Configuration: cfg, Quantity: quantity})
	}

	return s.writeGuestCart(ctx, sessionID, lines)
}

// MergeGuestCartToUser replays the guest cart into the user's cart at sign-in
// and deletes the session copy.
func (s *Service) MergeGuestCartToUser(ctx context.Context, sessionID string, userID uint) (*CartResponse, error) {
	lines, err := s.readGuestCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		_, err := s.AddItem(userID, &AddItemRequest{
			ProductID:     lines[i].ProductID,
			Configuration: lines[i].Configuration,
			Quantity:      lines[i].Quantity,
		})
		if err != nil {
			// Products removed or deactivated since the guest added them are
			// skipped rather than failing the whole merge.
			if apperrors.Is(err, apperrors.KindNotFound) || apperrors.Is(err, apperrors.KindInvalidState) {
				continue
			}
			return nil, err
		}
	}

	if err := s.redis.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		return nil, fmt.Errorf("failed to drop guest cart: %w", err)
	}
	return s.GetCart(userID)
}

func (s *Service) readGuestCart(ctx context.Context, sessionID string) ([]guestCartLine, error) {
	data, err := s.redis.Get(ctx, guestCartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	var lines []guestCartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, fmt.Errorf("corrupt guest cart payload: %w", err)
	}
	return lines, nil
}

func (s *Service) writeGuestCart(ctx context.Context, sessionID string, lines []guestCartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}
	if err := s.redis.Set(ctx, guestCartKey(sessionID), data, guestCartTTL).Err(); err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}
	return nil
}
