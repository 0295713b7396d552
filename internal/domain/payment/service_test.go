// internal/domain/payment/service_test.go
package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/furniture-backend/internal/domain/order"
)

func TestDepositAmount(t *testing.T) {
	assert.Equal(t, int64(50000), DepositAmount(100000))
	// Odd totals round the deposit up so deposit >= balance.
	assert.Equal(t, int64(50001), DepositAmount(100001))
	assert.Equal(t, int64(1), DepositAmount(1))
}

func TestNextExpectedAmount_FullPlan(t *testing.T) {
	o := &order.Order{Total: 100000, PaymentPlan: order.PaymentPlanFull}

	assert.Equal(t, int64(100000), NextExpectedAmount(o, 0))
	assert.Equal(t, int64(0), NextExpectedAmount(o, 100000))
}

func TestNextExpectedAmount_DepositBalancePlan(t *testing.T) {
	o := &order.Order{Total: 100001, PaymentPlan: order.PaymentPlanDepositBalance}

	deposit := NextExpectedAmount(o, 0)
	assert.Equal(t, int64(50001), deposit)

	balance := NextExpectedAmount(o, deposit)
	assert.Equal(t, int64(50000), balance)
	assert.Equal(t, o.Total, deposit+balance)

	assert.Equal(t, int64(0), NextExpectedAmount(o, o.Total))
}

func TestMethodValid(t *testing.T) {
	assert.True(t, MethodCard.Valid())
	assert.True(t, MethodBankTransfer.Valid())
	assert.False(t, Method("cash").Valid())
}
