package handler

import (
	"net/http"
	"time"

	"tinytreats/internal/invoice"
	"tinytreats/internal/model"
	"tinytreats/pkg/logger"
	"tinytreats/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceHandler serves invoice listing and PDF rendering
type InvoiceHandler struct {
	DB *gorm.DB
}

// ListInvoices handles retrieving all invoices
func (h *InvoiceHandler) ListInvoices(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var invoices []model.Invoice
	result := h.DB.Find(&invoices)
	if result.Error != nil {
		log.Error("Failed to list invoices", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve invoices",
		})
	}

	log.Info("Invoices retrieved successfully", zap.Int("count", len(invoices)))
	return c.JSON(http.StatusOK, invoices)
}

// GetInvoicePDF renders the invoice as a PDF and streams it inline
func (h *InvoiceHandler) GetInvoicePDF(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var inv model.Invoice
	result := h.DB.First(&inv, id)
	if result.Error != nil {
		log.Error("Invoice not found", zap.String("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Invoice not found",
		})
	}

	var order model.Order
	result = h.DB.Preload("Items").Preload("Items.Product").First(&order, inv.OrderID)
	if result.Error != nil {
		log.Error("Related order not found",
			zap.String("invoice_id", id),
			zap.Uint("order_id", inv.OrderID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Related order not found",
		})
	}

	pdf, err := invoice.RenderPDF(&inv, &order)
	if err != nil {
		log.Error("Failed to render invoice PDF",
			zap.String("invoice_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to render invoice",
		})
	}

	prometheus.RecordOrderOperation("invoice_pdf")
	log.Info("Invoice PDF rendered",
		zap.String("invoice_id", id),
		zap.String("invoice_number", inv.InvoiceNumber))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`inline; filename=invoice_`+inv.InvoiceNumber+`.pdf`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
