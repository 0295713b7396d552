// internal/domain/payment/entity.go
package payment

import (
	"time"
)

// Method is the tender used for a payment.
type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
)

// Valid reports whether the method is one of the known values.
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodBankTransfer
}

// Status is the outcome of a payment attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Payment is one attempt to collect money against an order. SequenceNumber is
// 1-based per order; the deposit of a split plan is sequence 1 and the balance
// sequence 2.
type Payment struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderID        uint   `gorm:"not null;index;uniqueIndex:idx_order_payment_seq" json:"order_id"`
	SequenceNumber int    `gorm:"not null;uniqueIndex:idx_order_payment_seq" json:"sequence_number"`
	Amount         int64  `gorm:"not null" json:"amount"` // cents
	Currency       string `gorm:"not null;size:3" json:"currency"`
	Method         Method `gorm:"not null;size:20" json:"method"`
	Status         Status `gorm:"not null;size:20" json:"status"`
	TransactionRef string `gorm:"not null;size:64" json:"transaction_ref"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName override
func (Payment) TableName() string { return "payments" }

// DepositAmount returns the first installment of a split plan: half the
// total, rounded up so the balance never exceeds the deposit by more than
// one cent.
func DepositAmount(total int64) int64 {
	return (total + 1) / 2
}
