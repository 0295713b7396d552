// internal/domain/order/checkout_test.go
package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/cart"
	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/domain/user"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type checkoutEnv struct {
	db        *gorm.DB
	orders    *Service
	carts     *cart.Service
	addresses *user.AddressService
	user      *user.User
	address   *user.Address
	product   *product.Product
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.User{}, &user.Address{},
		&product.Product{}, &product.MaterialOption{}, &product.ColorOption{},
		&product.FabricOption{}, &product.SizeOption{}, &product.ProductImage{},
		&cart.Cart{}, &cart.CartItem{},
		&Order{}, &OrderItem{}, &OrderStatusHistory{},
	))

	cfg := &config.Config{}
	cfg.Commerce = config.CommerceConfig{
		FreeShippingThreshold: 50000,
		FlatShippingFee:       2500,
		TaxRate:               0,
		CurrencyCode:          "USD",
		DefaultLeadTimeDays:   14,
		DeliveryBufferDays:    7,
		OrderNumberAttempts:   3,
	}

	u := user.User{Email: "maya@example.com", PasswordHash: "irrelevant", FirstName: "Maya", LastName: "Lindqvist", Role: user.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	addresses := user.NewAddressService(db)
	a, err := addresses.CreateAddress(u.ID, &user.AddressRequest{
		FirstName: "Maya", LastName: "Lindqvist",
		Line1: "12 Workshop Lane", City: "Portland", PostalCode: "97201", Country: "US",
	})
	require.NoError(t, err)

	p := product.Product{
		SKU: "TBL-TEST", Name: "Test Table", Slug: "test-table",
		BasePrice: 10000, Category: product.CategoryTable,
		LeadTimeDays: 21, IsActive: true,
	}
	require.NoError(t, db.Create(&p).Error)

	carts := cart.NewService(db, nil, cfg)
	return &checkoutEnv{
		db:        db,
		orders:    NewService(db, cfg, carts, addresses),
		carts:     carts,
		addresses: addresses,
		user:      &u,
		address:   a,
		product:   &p,
	}
}

func (e *checkoutEnv) placeOrder(t *testing.T, quantity int) *Order {
	t.Helper()

	_, err := e.carts.AddItem(e.user.ID, &cart.AddItemRequest{ProductID: e.product.ID, Quantity: quantity})
	require.NoError(t, err)

	o, err := e.orders.CreateOrder(e.user.ID, &CreateOrderRequest{ShippingAddressID: e.address.ID})
	require.NoError(t, err)
	return o
}

func TestCreateOrderSnapshotsCartAndClearsIt(t *testing.T) {
	env := newCheckoutEnv(t)
	o := env.placeOrder(t, 2)

	assert.Equal(t, FormatOrderNumber(time.Now().Year(), 1), o.OrderNumber)
	assert.Equal(t, StatusPendingPayment, o.Status)
	assert.Equal(t, int64(20000), o.Subtotal)
	assert.Equal(t, int64(2500), o.ShippingCost) // under the free threshold
	assert.Equal(t, int64(22500), o.Total)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Test Table", o.Items[0].ProductName)
	assert.Equal(t, int64(10000), o.Items[0].UnitPrice)
	require.Len(t, o.History, 1)
	assert.Equal(t, "Order created", o.History[0].Note)
	require.NotNil(t, o.EstimatedDelivery)

	// Billing defaults to shipping when omitted.
	assert.Equal(t, env.address.ID, o.ShippingAddressID)
	assert.Equal(t, env.address.ID, o.BillingAddressID)

	emptied, err := env.carts.GetCartForCheckout(env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)
}

func TestOrderReflectsLaterAddressEdits(t *testing.T) {
	env := newCheckoutEnv(t)
	o := env.placeOrder(t, 1)

	_, err := env.addresses.UpdateAddress(env.user.ID, env.address.ID, &user.AddressRequest{
		FirstName: "Maya", LastName: "Lindqvist",
		Line1: "99 New Workshop Road", City: "Portland", PostalCode: "97201", Country: "US",
		IsDefault: true,
	})
	require.NoError(t, err)

	reloaded, err := env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ShippingAddress)
	assert.Equal(t, "99 New Workshop Road", reloaded.ShippingAddress.Line1)
	require.NotNil(t, reloaded.BillingAddress)
	assert.Equal(t, "99 New Workshop Road", reloaded.BillingAddress.Line1)
}

func TestDeleteAddressReferencedByOrderRejected(t *testing.T) {
	env := newCheckoutEnv(t)
	env.placeOrder(t, 1)

	err := env.addresses.DeleteAddress(env.user.ID, env.address.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidState))

	// The address is still there.
	_, err = env.addresses.GetAddress(env.user.ID, env.address.ID)
	assert.NoError(t, err)
}

func TestGetOrderByNumberHistoryOrdered(t *testing.T) {
	env := newCheckoutEnv(t)
	o := env.placeOrder(t, 1)

	_, err := env.orders.UpdateStatus(o.ID, StatusConfirmed, "Paid in full")
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(o.ID, StatusInProduction, "")
	require.NoError(t, err)

	reloaded, err := env.orders.GetOrderByNumber(o.OrderNumber, env.user.ID, false)
	require.NoError(t, err)
	require.Len(t, reloaded.History, 3)
	assert.Equal(t, StatusPendingPayment, reloaded.History[0].Status)
	assert.Equal(t, StatusConfirmed, reloaded.History[1].Status)
	assert.Equal(t, StatusInProduction, reloaded.History[2].Status)
}

func TestUpdateStatusRejectedLeavesOrderUntouched(t *testing.T) {
	env := newCheckoutEnv(t)
	o := env.placeOrder(t, 1)

	_, err := env.orders.UpdateStatus(o.ID, StatusShipped, "")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidState))

	reloaded, err := env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, reloaded.Status)
	assert.Len(t, reloaded.History, 1)
}

func TestNonOwnerCannotSeeOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	o := env.placeOrder(t, 1)

	other := user.User{Email: "jon@example.com", PasswordHash: "irrelevant", FirstName: "Jon", LastName: "Berg", Role: user.RoleCustomer, IsActive: true}
	require.NoError(t, env.db.Create(&other).Error)

	_, err := env.orders.GetOrder(o.ID, other.ID, false)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	// Admins see everything.
	_, err = env.orders.GetOrder(o.ID, other.ID, true)
	assert.NoError(t, err)
}
