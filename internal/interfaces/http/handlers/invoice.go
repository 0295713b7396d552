// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/domain/cart"
	"github.com/your-org/furniture-backend/internal/domain/order"
	"github.com/your-org/furniture-backend/internal/domain/user"
	"github.com/your-org/furniture-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// InvoiceHandler serves PDF invoices for orders
type InvoiceHandler struct {
	orders *order.Service
	pdf    *pdf.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *InvoiceHandler {
	carts := cart.NewService(db, redisClient, cfg)
	addresses := user.NewAddressService(db)
	return &InvoiceHandler{
		orders: order.NewService(db, cfg, carts, addresses),
		pdf:    pdf.NewService(cfg),
	}
}

// GetInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(orderID, userID, isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.pdf.GenerateInvoice(o)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
