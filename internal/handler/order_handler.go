package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tinytreats/internal/invoice"
	"tinytreats/internal/model"
	"tinytreats/internal/syncer"
	"tinytreats/pkg/logger"
	"tinytreats/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ManualOrderItem is one line of a manually entered order
type ManualOrderItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ManualOrderRequest is the payload of the back-office invoice builder
type ManualOrderRequest struct {
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Total        float64           `json:"total"`
	Status       string            `json:"status"`
	Items        []ManualOrderItem `json:"items"`
}

// OrderHandler serves order listing, manual creation, confirmation and
// the cloud sync trigger
type OrderHandler struct {
	DB     *gorm.DB
	Syncer *syncer.Syncer
}

// ListOrders handles retrieving all orders with their items
func (h *OrderHandler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.Order
	result := h.DB.Preload("Items").Preload("Items.Product").Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}

	log.Info("Orders retrieved successfully", zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// CreateManualOrder handles orders entered directly by an administrator.
// The order is confirmed immediately, stock is deducted and an invoice
// is generated in the same transaction.
func (h *OrderHandler) CreateManualOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req ManualOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid manual order data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	status := req.Status
	if status == "" {
		status = model.StatusConfirmed
	}

	order := model.Order{
		// Manual orders never come from the cloud; a synthetic cloud id
		// keeps the unique index satisfied
		CloudID:      fmt.Sprintf("manual_%d", time.Now().Unix()),
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Total:        req.Total,
		Status:       status,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&order); result.Error != nil {
			return result.Error
		}

		for _, item := range req.Items {
			orderItem := model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
			if result := tx.Create(&orderItem); result.Error != nil {
				return result.Error
			}

			// Deduct stock
			var product model.Product
			if result := tx.First(&product, item.ProductID); result.Error == nil {
				product.Stock -= item.Quantity
				if result := tx.Save(&product); result.Error != nil {
					return result.Error
				}
			}
		}

		_, err := invoice.Create(tx, order.ID)
		return err
	})
	if err != nil {
		log.Error("Failed to create manual order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create manual order",
		})
	}

	prometheus.RecordOrderOperation("manual_create")
	log.Info("Manual order created",
		zap.Uint("order_id", order.ID),
		zap.String("customer", order.CustomerName),
		zap.Float64("total", order.Total))
	return c.JSON(http.StatusOK, order)
}

// ConfirmOrder confirms a pending order: checks and deducts stock, then
// generates the invoice synchronously
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var order model.Order
	result := h.DB.Preload("Items").First(&order, id)
	if result.Error != nil {
		log.Error("Order not found", zap.String("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Order not found",
		})
	}

	if order.Status != model.StatusPending {
		log.Warn("Order already processed",
			zap.String("order_id", id),
			zap.String("status", order.Status))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Order already processed",
		})
	}

	var inv *model.Invoice
	defer prometheus.TrackDBOperation("update")(time.Now())
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// Check inventory and deduct
		for _, item := range order.Items {
			var product model.Product
			if result := tx.First(&product, item.ProductID); result.Error != nil {
				return result.Error
			}
			if product.Stock < item.Quantity {
				return &insufficientStockError{name: product.Name}
			}
			product.Stock -= item.Quantity
			if result := tx.Save(&product); result.Error != nil {
				return result.Error
			}
		}

		order.Status = model.StatusConfirmed
		if result := tx.Save(&order); result.Error != nil {
			return result.Error
		}

		var err error
		inv, err = invoice.Create(tx, order.ID)
		return err
	})
	if err != nil {
		if stockErr, ok := err.(*insufficientStockError); ok {
			log.Warn("Insufficient stock for order confirmation",
				zap.String("order_id", id),
				zap.String("product", stockErr.name))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": stockErr.Error(),
			})
		}
		log.Error("Failed to confirm order", zap.String("order_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to confirm order",
		})
	}

	prometheus.RecordOrderOperation("confirm")
	log.Info("Order confirmed",
		zap.String("order_id", id),
		zap.String("invoice_number", inv.InvoiceNumber))
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Order confirmed and inventory updated",
		"invoice_number": inv.InvoiceNumber,
	})
}

// TriggerSync starts a cloud sync run in the background and returns
// immediately; it is not an acknowledgement of completion
func (h *OrderHandler) TriggerSync(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Sync triggered")

	go func() {
		if err := h.Syncer.Run(context.Background()); err != nil {
			logger.GetLogger().Error("Background sync failed", zap.Error(err))
		}
	}()

	prometheus.RecordOrderOperation("sync_trigger")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Sync started in background",
	})
}

type insufficientStockError struct {
	name string
}

func (e *insufficientStockError) Error() string {
	return "Insufficient stock for " + e.name
}
