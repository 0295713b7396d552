// internal/domain/payment/record_test.go
package payment

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/cart"
	"github.com/your-org/furniture-backend/internal/domain/order"
	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/domain/user"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type paymentEnv struct {
	db       *gorm.DB
	orders   *order.Service
	payments *Service
	user     *user.User
	address  *user.Address
}

func newPaymentEnv(t *testing.T) *paymentEnv {
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
		&order.Order{}, &order.OrderItem{}, &order.OrderStatusHistory{},
		&Payment{},
	))

	cfg := &config.Config{}
	cfg.Commerce = config.CommerceConfig{
		FreeShippingThreshold: 50000,
		FlatShippingFee:       2500,
		CurrencyCode:          "USD",
		DefaultLeadTimeDays:   14,
		DeliveryBufferDays:    7,
		OrderNumberAttempts:   3,
	}

	u := user.User{Email: "maya@example.com", PasswordHash: "irrelevant", FirstName: "Maya", LastName: "Lindqvist", Role: user.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	a := user.Address{UserID: u.ID, FirstName: "Maya", LastName: "Lindqvist", Line1: "12 Workshop Lane", City: "Portland", PostalCode: "97201", Country: "US", IsDefault: true}
	require.NoError(t, db.Create(&a).Error)

	orders := order.NewService(db, cfg, cart.NewService(db, nil, cfg), user.NewAddressService(db))
	return &paymentEnv{
		db:       db,
		orders:   orders,
		payments: NewService(db, cfg, orders),
		user:     &u,
		address:  &a,
	}
}

func (e *paymentEnv) seedOrder(t *testing.T, total int64, plan order.PaymentPlan) *order.Order {
	t.Helper()

	o := order.Order{
		OrderNumber:       fmt.Sprintf("ORD-2026-%05d", 1),
		UserID:            e.user.ID,
		Status:            order.StatusPendingPayment,
		PaymentPlan:       plan,
		Subtotal:          total,
		Total:             total,
		Currency:          "USD",
		ShippingAddressID: e.address.ID,
		BillingAddressID:  e.address.ID,
		History: []order.OrderStatusHistory{
			{Status: order.StatusPendingPayment, Note: "Order created"},
		},
	}
	require.NoError(t, e.db.Omit("ShippingAddress", "BillingAddress", "User").Create(&o).Error)
	return &o
}

func TestRecordPaymentFullPlanConfirmsOrder(t *testing.T) {
	env := newPaymentEnv(t)
	o := env.seedOrder(t, 27500, order.PaymentPlanFull)

	state, err := env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 27500, Method: MethodCard, Succeeded: true,
	})
	require.NoError(t, err)
	assert.True(t, state.FullySettled)
	assert.Equal(t, int64(0), state.AmountDue)

	reloaded, err := env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, reloaded.Status)
}

func TestRecordPaymentFailureMovesOrderToPaymentFailed(t *testing.T) {
	env := newPaymentEnv(t)
	o := env.seedOrder(t, 27500, order.PaymentPlanFull)

	state, err := env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 27500, Method: MethodCard, Succeeded: false,
	})
	require.NoError(t, err)
	assert.False(t, state.FullySettled)
	assert.Equal(t, int64(0), state.AmountPaid)

	reloaded, err := env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentFailed, reloaded.Status)

	// A successful retry settles and confirms.
	_, err = env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 27500, Method: MethodCard, Succeeded: true,
	})
	require.NoError(t, err)

	reloaded, err = env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, reloaded.Status)
}

func TestRecordPaymentDepositThenBalance(t *testing.T) {
	env := newPaymentEnv(t)
	o := env.seedOrder(t, 100001, order.PaymentPlanDepositBalance)

	state, err := env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 50001, Method: MethodBankTransfer, Succeeded: true,
	})
	require.NoError(t, err)
	assert.False(t, state.FullySettled)
	assert.Equal(t, int64(50000), state.NextExpected)

	reloaded, err := env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPendingPayment, reloaded.Status)

	state, err = env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 50000, Method: MethodBankTransfer, Succeeded: true,
	})
	require.NoError(t, err)
	assert.True(t, state.FullySettled)
	require.Len(t, state.Payments, 2)
	assert.Equal(t, 1, state.Payments[0].SequenceNumber)
	assert.Equal(t, 2, state.Payments[1].SequenceNumber)

	reloaded, err = env.orders.GetOrder(o.ID, env.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, reloaded.Status)
}

func TestRecordPaymentWrongAmountRejected(t *testing.T) {
	env := newPaymentEnv(t)
	o := env.seedOrder(t, 100000, order.PaymentPlanDepositBalance)

	_, err := env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 100000, Method: MethodCard, Succeeded: true, // deposit expected first
	})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestRecordPaymentSequenceCollisionSurfacesConflict(t *testing.T) {
	env := newPaymentEnv(t)
	o := env.seedOrder(t, 27500, order.PaymentPlanFull)

	// A row already holding the sequence the count-based allocator will pick
	// makes every retry collide on the (order_id, sequence_number) index.
	squatter := Payment{
		OrderID:        o.ID,
		SequenceNumber: 2,
		Amount:         27500,
		Currency:       "USD",
		Method:         MethodCard,
		Status:         StatusFailed,
		TransactionRef: "stale",
	}
	require.NoError(t, env.db.Create(&squatter).Error)

	_, err := env.payments.RecordPayment(o.ID, env.user.ID, false, &RecordPaymentRequest{
		Amount: 27500, Method: MethodCard, Succeeded: true,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}
