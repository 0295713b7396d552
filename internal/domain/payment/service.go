// internal/domain/payment/service.go
package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/order"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// sequenceAttempts bounds the retries when concurrent recordings collide on
// the per-order sequence number.
const sequenceAttempts = 3

// Service records payment attempts against orders and drives the
// payment-related order status transitions.
type Service struct {
	db     *gorm.DB
	config *config.Config
	orders *order.Service
}

// NewService creates a new payment service
func NewService(db *gorm.DB, cfg *config.Config, orders *order.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		orders: orders,
	}
}

// RecordPaymentRequest represents the outcome of a payment attempt as
// reported by the payment processor webhook or the admin back office.
type RecordPaymentRequest struct {
	Amount         int64  `json:"amount" binding:"required,min=1"`
	Method         Method `json:"method" binding:"required"`
	Succeeded      bool   `json:"succeeded"`
	TransactionRef string `json:"transaction_ref"`
}

// PaymentStateResponse couples the stored payments with the derived totals.
type PaymentStateResponse struct {
	OrderID       uint      `json:"order_id"`
	OrderTotal    int64     `json:"order_total"`
	AmountPaid    int64     `json:"amount_paid"`
	AmountDue     int64     `json:"amount_due"`
	NextExpected  int64     `json:"next_expected"`
	FullySettled  bool      `json:"fully_settled"`
	Payments      []Payment `json:"payments"`
}

// RecordPayment stores a payment attempt and advances the order:
// a failed attempt moves a pending order to payment_failed, a successful
// retry moves it back to pending first, and full settlement confirms it.
func (s *Service) RecordPayment(orderID, callerID uint, isAdmin bool, req *RecordPaymentRequest) (*PaymentStateResponse, error) {
	if !req.Method.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown payment method: %s", req.Method))
	}

	o, err := s.orders.GetOrder(orderID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPendingPayment && o.Status != order.StatusPaymentFailed {
		return nil, apperrors.InvalidStatef("order %s does not accept payments in status %s", o.OrderNumber, o.Status)
	}

	status := StatusFailed
	if req.Succeeded {
		status = StatusSucceeded
	}
	ref := req.TransactionRef
	if ref == "" {
		ref = uuid.NewString()
	}

	// The per-order sequence is derived from a count, so two concurrent
	// recordings can collide on the (order_id, sequence_number) unique index;
	// the loser re-reads and retries with a fresh sequence.
	var paid int64
	recorded := false
	for attempt := 0; attempt < sequenceAttempts; attempt++ {
		var seq int
		paid, seq, err = s.settledState(orderID)
		if err != nil {
			return nil, err
		}

		expected := NextExpectedAmount(o, paid)
		if req.Succeeded && req.Amount != expected {
			return nil, apperrors.BadRequest(fmt.Sprintf("expected payment of %d, got %d", expected, req.Amount))
		}

		p := Payment{
			OrderID:        orderID,
			SequenceNumber: seq + 1,
			Amount:         req.Amount,
			Currency:       o.Currency,
			Method:         req.Method,
			Status:         status,
			TransactionRef: ref,
		}
		err = s.db.Create(&p).Error
		if err == nil {
			recorded = true
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if !recorded {
		return nil, apperrors.Conflict("payment sequence allocation kept colliding, please retry", err)
	}

	if err := s.advanceOrder(o, req.Succeeded, paid+req.Amount); err != nil {
		return nil, err
	}
	return s.GetPaymentState(orderID, callerID, isAdmin)
}

// GetPaymentState returns the payments of an order with derived totals.
func (s *Service) GetPaymentState(orderID, callerID uint, isAdmin bool) (*PaymentStateResponse, error) {
	o, err := s.orders.GetOrder(orderID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}

	var payments []Payment
	if err := s.db.Where("order_id = ?", orderID).Order("sequence_number ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	var paid int64
	for i := range payments {
		if payments[i].Status == StatusSucceeded {
			paid += payments[i].Amount
		}
	}

	due := o.Total - paid
	if due < 0 {
		due = 0
	}
	return &PaymentStateResponse{
		OrderID:      o.ID,
		OrderTotal:   o.Total,
		AmountPaid:   paid,
		AmountDue:    due,
		NextExpected: NextExpectedAmount(o, paid),
		FullySettled: paid >= o.Total,
		Payments:     payments,
	}, nil
}

// advanceOrder applies the payment outcome to the order lifecycle.
func (s *Service) advanceOrder(o *order.Order, succeeded bool, paidAfter int64) error {
	if !succeeded {
		if o.Status == order.StatusPendingPayment {
			if _, err := s.orders.UpdateStatus(o.ID, order.StatusPaymentFailed, "Payment attempt failed"); err != nil {
				return err
			}
		}
		return nil
	}

	// A successful attempt after a failure first reopens the order.
	if o.Status == order.StatusPaymentFailed {
		if _, err := s.orders.UpdateStatus(o.ID, order.StatusPendingPayment, "Payment retried"); err != nil {
			return err
		}
	}
	if paidAfter >= o.Total {
		if _, err := s.orders.UpdateStatus(o.ID, order.StatusConfirmed, "Payment received in full"); err != nil {
			return err
		}
	}
	return nil
}

// settledState sums succeeded payments and counts all attempts.
func (s *Service) settledState(orderID uint) (paid int64, attempts int, err error) {
	var payments []Payment
	if err := s.db.Where("order_id = ?", orderID).Find(&payments).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	for i := range payments {
		if payments[i].Status == StatusSucceeded {
			paid += payments[i].Amount
		}
	}
	return paid, len(payments), nil
}

// NextExpectedAmount derives the amount the next successful payment must
// carry: the full remainder on a full plan, the deposit then the balance on
// a split plan.
func NextExpectedAmount(o *order.Order, paidSoFar int64) int64 {
	remaining := o.Total - paidSoFar
	if remaining <= 0 {
		return 0
	}
	if o.PaymentPlan == order.PaymentPlanDepositBalance && paidSoFar == 0 {
		return DepositAmount(o.Total)
	}
	return remaining
}
