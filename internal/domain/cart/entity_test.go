// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{Quantity: 2, UnitPrice: 100},
			{Quantity: 1, UnitPrice: 50},
		},
	}

	assert.Equal(t, int64(200), c.Items[0].LineTotal())
	assert.Equal(t, int64(50), c.Items[1].LineTotal())
	assert.Equal(t, int64(250), c.Subtotal())
	assert.Equal(t, 3, c.ItemCount())
}

func TestCartTotals_Empty(t *testing.T) {
	c := Cart{}
	assert.Equal(t, int64(0), c.Subtotal())
	assert.Equal(t, 0, c.ItemCount())
}
