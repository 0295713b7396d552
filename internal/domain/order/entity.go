// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/domain/user"
)

// Status represents the order lifecycle stage.
type Status string

const (
	StatusPendingPayment   Status = "pending_payment"
	StatusPaymentFailed    Status = "payment_failed"
	StatusConfirmed        Status = "confirmed"
	StatusInProduction     Status = "in_production"
	StatusReadyForShipping Status = "ready_for_shipping"
	StatusShipped          Status = "shipped"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
	StatusRefunded         Status = "refunded"
)

// PaymentPlan selects how the order total is collected.
type PaymentPlan string

const (
	PaymentPlanFull           PaymentPlan = "full"
	PaymentPlanDepositBalance PaymentPlan = "deposit_balance"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Valid reports whether the payment plan is one of the known values.
func (p PaymentPlan) Valid() bool {
	return p == PaymentPlanFull || p == PaymentPlanDepositBalance
}

// statusTransitions is the directed graph of permitted status changes.
// Terminal states map to an empty edge set.
var statusTransitions = map[Status][]Status{
	StatusPendingPayment:   {StatusConfirmed, StatusPaymentFailed, StatusCancelled},
	StatusPaymentFailed:    {StatusPendingPayment, StatusCancelled},
	StatusConfirmed:        {StatusInProduction, StatusCancelled, StatusRefunded},
	StatusInProduction:     {StatusReadyForShipping, StatusRefunded},
	StatusReadyForShipping: {StatusShipped, StatusRefunded},
	StatusShipped:          {StatusDelivered, StatusRefunded},
	StatusDelivered:        {StatusRefunded},
	StatusCancelled:        {},
	StatusRefunded:         {},
}

// CanTransition reports whether moving from one status to another is an edge
// of the lifecycle graph.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// cancellableStatuses are the only stages at which an order may still be
// cancelled; from in_production onward materials are committed.
var cancellableStatuses = map[Status]bool{
	StatusPendingPayment: true,
	StatusPaymentFailed:  true,
	StatusConfirmed:      true,
}

// CanBeCancelled reports whether the status still permits cancellation.
func CanBeCancelled(s Status) bool {
	return cancellableStatuses[s]
}

// Order is the immutable snapshot of a purchased cart plus its lifecycle state.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:20" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Status      Status      `gorm:"not null;size:30;index" json:"status"`
	PaymentPlan PaymentPlan `gorm:"not null;size:20;default:full" json:"payment_plan"`

	// Monetary amounts in cents, fixed at creation.
	Subtotal     int64  `gorm:"not null" json:"subtotal"`
	ShippingCost int64  `gorm:"not null" json:"shipping_cost"`
	TaxAmount    int64  `gorm:"not null" json:"tax_amount"`
	Total        int64  `gorm:"not null" json:"total"`
	Currency     string `gorm:"not null;size:3" json:"currency"`

	// Addresses are held by reference, not copied: editing an address later
	// shows through on the order. The rows themselves cannot be deleted while
	// an order points at them.
	ShippingAddressID uint          `gorm:"not null;index" json:"shipping_address_id"`
	BillingAddressID  uint          `gorm:"not null" json:"billing_address_id"`
	ShippingAddress   *user.Address `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:RESTRICT" json:"shipping_address,omitempty"`
	BillingAddress    *user.Address `gorm:"foreignKey:BillingAddressID;constraint:OnDelete:RESTRICT" json:"billing_address,omitempty"`

	// Orders outlive their user's account actions: the schema restricts user
	// deletion while orders exist.
	User *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`

	Notes             string     `gorm:"type:text" json:"notes,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items   []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"history,omitempty"`
}

// OrderItem is a frozen copy of a cart line at purchase time. Name, SKU,
// configuration and prices never change after creation even if the catalog does.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`

	// Products cannot be hard-deleted while any order item references them.
	ProductID uint             `gorm:"not null;index" json:"product_id"`
	Product   *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`

	ProductName          string `gorm:"not null;size:255" json:"product_name"`
	ProductSKU           string `gorm:"not null;size:100" json:"product_sku"`
	Configuration        string `gorm:"not null;size:500" json:"configuration"`
	ConfigurationDisplay string `gorm:"size:500" json:"configuration_display"`

	Quantity   int   `gorm:"not null" json:"quantity"`
	UnitPrice  int64 `gorm:"not null" json:"unit_price"`
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusHistory is one append-only audit entry per status change.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null;size:30" json:"status"`
	Note      string    `gorm:"size:500" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// MaxLeadTimeDays returns the longest product lead time across the order's
// items, falling back to the given default for empty input.
func MaxLeadTimeDays(leadTimes []int, fallback int) int {
	max := 0
	for _, lt := range leadTimes {
		if lt > max {
			max = lt
		}
	}
	if max == 0 {
		return fallback
	}
	return max
}
