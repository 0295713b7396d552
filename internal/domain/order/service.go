// internal/domain/order/service.go
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/cart"
	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/domain/user"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles order lifecycle business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	carts     *cart.Service
	addresses *user.AddressService
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, carts *cart.Service, addresses *user.AddressService) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		carts:     carts,
		addresses: addresses,
	}
}

// CreateOrderRequest represents checkout data
type CreateOrderRequest struct {
	ShippingAddressID uint        `json:"shipping_address_id" binding:"required"`
	BillingAddressID  *uint       `json:"billing_address_id"`
	PaymentPlan       PaymentPlan `json:"payment_plan"`
	Notes             string      `json:"notes"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status Status `form:"status"`
}

// OrderListResponse represents orders with pagination
type OrderListResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination product.Pagination `json:"pagination"`
}

// CreateOrder converts the user's cart into an immutable order snapshot and
// clears the cart. The whole conversion is one transaction; a half-written
// order is never observable.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	userCart, err := s.carts.GetCartForCheckout(userID)
	if err != nil {
		return nil, err
	}
	if len(userCart.Items) == 0 {
		return nil, apperrors.BadRequest("cart is empty")
	}

	plan := req.PaymentPlan
	if plan == "" {
		plan = PaymentPlanFull
	}
	if !plan.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown payment plan: %s", plan))
	}

	// Address lookups are ownership-scoped; a foreign address id surfaces as
	// NotFound rather than leaking its existence.
	shipping, err := s.addresses.GetAddress(userID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	billing := shipping
	if req.BillingAddressID != nil {
		billing, err = s.addresses.GetAddress(userID, *req.BillingAddressID)
		if err != nil {
			return nil, err
		}
	}

	items, leadTimes, err := s.snapshotItems(userCart.Items)
	if err != nil {
		return nil, err
	}

	subtotal := userCart.Subtotal()
	shippingCost := ShippingCost(subtotal, s.config.Commerce.FreeShippingThreshold, s.config.Commerce.FlatShippingFee)
	taxAmount := TaxAmount(subtotal, s.config.Commerce.TaxRate)
	total := subtotal + shippingCost + taxAmount

	leadDays := MaxLeadTimeDays(leadTimes, s.config.Commerce.DefaultLeadTimeDays)
	estimated := time.Now().AddDate(0, 0, leadDays+s.config.Commerce.DeliveryBufferDays)

	var created *Order

	// The year-scoped counter can collide under concurrent checkouts; the
	// unique index on order_number is the arbiter and losers retry with a
	// recomputed sequence.
	attempts := s.config.Commerce.OrderNumberAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			number, err := s.nextOrderNumber(tx)
			if err != nil {
				return err
			}

			o := Order{
				OrderNumber:       number,
				UserID:            userID,
				Status:            StatusPendingPayment,
				PaymentPlan:       plan,
				Subtotal:          subtotal,
				ShippingCost:      shippingCost,
				TaxAmount:         taxAmount,
				Total:             total,
				Currency:          s.config.Commerce.CurrencyCode,
				ShippingAddressID: shipping.ID,
				BillingAddressID:  billing.ID,
				Notes:             req.Notes,
				EstimatedDelivery: &estimated,
				Items:             items,
				History: []OrderStatusHistory{
					{Status: StatusPendingPayment, Note: "Order created"},
				},
			}
			if err := tx.Omit("ShippingAddress", "BillingAddress", "User").Create(&o).Error; err != nil {
				return err
			}
			if err := s.carts.ClearByCartID(tx, userCart.ID); err != nil {
				return err
			}
			created = &o
			return nil
		})
		if err == nil {
			created.ShippingAddress = shipping
			created.BillingAddress = billing
			return created, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return nil, apperrors.Conflict("order number allocation kept colliding, please retry", err)
}

// historyOrdered keeps the append-only log in insertion order on every read
// path that preloads it.
func historyOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// GetOrder retrieves an order. Non-admin callers only see their own orders.
func (s *Service) GetOrder(orderID, callerID uint, isAdmin bool) (*Order, error) {
	var o Order
	query := s.db.Preload("Items").Preload("History", historyOrdered).
		Preload("ShippingAddress").Preload("BillingAddress")
	if err := query.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if !isAdmin && o.UserID != callerID {
		return nil, apperrors.NotFound("order", orderID)
	}
	return &o, nil
}

// GetOrderByNumber retrieves an order by its human-readable number.
func (s *Service) GetOrderByNumber(number string, callerID uint, isAdmin bool) (*Order, error) {
	var o Order
	err := s.db.Preload("Items").Preload("History", historyOrdered).
		Preload("ShippingAddress").Preload("BillingAddress").
		Where("order_number = ?", number).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", number)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if !isAdmin && o.UserID != callerID {
		return nil, apperrors.NotFound("order", number)
	}
	return &o, nil
}

// ListOrders returns the caller's orders, or all orders for admins.
func (s *Service) ListOrders(callerID uint, isAdmin bool, req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items")
	if !isAdmin {
		query = query.Where("user_id = ?", callerID)
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown order status: %s", req.Status))
		}
		query = query.Where("status = ?", req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: product.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// UpdateStatus moves an order along the lifecycle graph and appends the
// transition to its history. The write is a compare-and-swap on the current
// status so two concurrent updates cannot both succeed from the same state.
func (s *Service) UpdateStatus(orderID uint, newStatus Status, note string) (*Order, error) {
	if !newStatus.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown order status: %s", newStatus))
	}

	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !CanTransition(o.Status, newStatus) {
		return nil, apperrors.InvalidStatef("invalid status transition from %s to %s", o.Status, newStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND status = ?", orderID, o.Status).
			Update("status", newStatus)
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent transition.
			return apperrors.InvalidStatef("order %d changed status concurrently, transition to %s aborted", orderID, newStatus)
		}
		entry := OrderStatusHistory{OrderID: orderID, Status: newStatus, Note: note}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(orderID, o.UserID, true)
}

// CancelOrder cancels an order that has not entered production. Non-admin
// callers may only cancel their own orders.
func (s *Service) CancelOrder(orderID, callerID uint, isAdmin bool) (*Order, error) {
	o, err := s.GetOrder(orderID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}

	if !CanBeCancelled(o.Status) {
		return nil, apperrors.BadRequest("order is already in production or shipped and can no longer be cancelled")
	}

	note := "Cancelled by customer"
	if isAdmin {
		note = "Cancelled by administrator"
	}
	return s.UpdateStatus(orderID, StatusCancelled, note)
}

// snapshotItems freezes cart lines into order items with catalog display data.
func (s *Service) snapshotItems(items []cart.CartItem) ([]OrderItem, []int, error) {
	snapshots := make([]OrderItem, 0, len(items))
	leadTimes := make([]int, 0, len(items))

	for i := range items {
		ci := &items[i]

		var p product.Product
		err := s.db.
			Preload("Materials").
			Preload("Colors").
			Preload("Fabrics").
			Preload("Sizes").
			First(&p, ci.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, apperrors.NotFound("product", ci.ProductID)
			}
			return nil, nil, fmt.Errorf("failed to retrieve product: %w", err)
		}
		if !p.IsActive {
			return nil, nil, apperrors.InvalidStatef("product %q is no longer available", p.Name)
		}

		cfg, err := product.ParseConfiguration(ci.Configuration)
		if err != nil {
			return nil, nil, fmt.Errorf("corrupt cart item configuration: %w", err)
		}

		snapshots = append(snapshots, OrderItem{
			ProductID:            p.ID,
			ProductName:          p.Name,
			ProductSKU:           p.SKU,
			Configuration:        ci.Configuration,
			ConfigurationDisplay: formatDisplay(product.DescribeConfiguration(&p, cfg)),
			Quantity:             ci.Quantity,
			UnitPrice:            ci.UnitPrice,
			TotalPrice:           ci.LineTotal(),
		})
		leadTimes = append(leadTimes, p.LeadTimeDays)
	}
	return snapshots, leadTimes, nil
}

// nextOrderNumber derives the year-scoped sequential order number.
func (s *Service) nextOrderNumber(tx *gorm.DB) (string, error) {
	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var count int64
	if err := tx.Model(&Order{}).Where("created_at >= ?", yearStart).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}
	return FormatOrderNumber(now.Year(), count+1), nil
}

// FormatOrderNumber renders the human-readable order number.
func FormatOrderNumber(year int, sequence int64) string {
	return fmt.Sprintf("ORD-%d-%05d", year, sequence)
}

// ShippingCost applies the flat-rate rule: free at or above the threshold,
// otherwise the flat fee. Amounts in cents.
func ShippingCost(subtotal, freeThreshold, flatFee int64) int64 {
	if subtotal >= freeThreshold {
		return 0
	}
	return flatFee
}

// TaxAmount computes tax in cents, rounded half up. A zero rate keeps the
// tax line at zero.
func TaxAmount(subtotal int64, rate float64) int64 {
	if rate <= 0 || subtotal <= 0 {
		return 0
	}
	return int64(float64(subtotal)*rate + 0.5)
}

// formatDisplay renders the resolved option names as a stable single line,
// e.g. "color: Ebony Stain, material: Walnut".
func formatDisplay(display map[string]string) string {
	if len(display) == 0 {
		return ""
	}
	keys := make([]string, 0, len(display))
	for k := range display {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, display[k]))
	}
	return strings.Join(parts, ", ")
}

// DisplayMap parses the stored single-line display back into pairs for
// templated documents.
func (oi OrderItem) DisplayMap() map[string]string {
	out := map[string]string{}
	if oi.ConfigurationDisplay == "" {
		return out
	}
	for _, part := range strings.Split(oi.ConfigurationDisplay, ", ") {
		if k, v, ok := strings.Cut(part, ": "); ok {
			out[k] = v
		}
	}
	return out
}

// ConfigurationJSON returns the frozen configuration as a decoded map for
// API responses.
func (oi OrderItem) ConfigurationJSON() map[string]string {
	var cfg map[string]string
	if err := json.Unmarshal([]byte(oi.Configuration), &cfg); err != nil {
		return map[string]string{}
	}
	return cfg
}
