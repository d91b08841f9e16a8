package invoice

import (
	"bytes"
	"fmt"

	"tinytreats/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF renders a printable A4 invoice for a confirmed order.
// Order items must be preloaded with their products.
func RenderPDF(inv *model.Invoice, order *model.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "TinyTreats Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Invoice & customer info
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 7, "Invoice Number: "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 7, "Date: "+inv.CreatedAt.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(85, 7, "Customer Name: "+order.CustomerName, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 7, "Phone: "+order.Phone, "", 1, "L", false, 0, "")
	pdf.Ln(10)

	// Items table header
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(255, 133, 161)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(70, 10, "Item Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 10, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 10, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 10, "Subtotal", "1", 1, "C", true, 0, "")

	// Items
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 245)
	for _, item := range order.Items {
		name := "Unknown Product"
		if item.Product != nil {
			name = item.Product.Name
		}
		subtotal := float64(item.Quantity) * item.UnitPrice
		pdf.CellFormat(70, 8, name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("Rs. %.2f", item.UnitPrice), "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("Rs. %.2f", subtotal), "1", 1, "C", true, 0, "")
	}

	// Total row
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(100, 10, "", "", 0, "", false, 0, "")
	pdf.CellFormat(35, 10, "Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 10, fmt.Sprintf("Rs. %.2f", order.Total), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	// Signature section
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(50, 7, "Authorized Signature:", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 7, "__________________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(50, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 7, "(TinyTreats Management)", "", 1, "L", false, 0, "")
	pdf.Ln(10)

	// Footer
	pdf.CellFormat(0, 7, "Thank you for your order! Follow us for more sweetness", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
