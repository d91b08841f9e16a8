package invoice

import (
	"fmt"
	"time"

	"tinytreats/internal/model"

	"gorm.io/gorm"
)

// NextNumber produces the next invoice number in the INV-YYYY-XXXX
// sequence, based on how many invoices exist so far
func NextNumber(db *gorm.DB) (string, error) {
	var count int64
	if result := db.Model(&model.Invoice{}).Count(&count); result.Error != nil {
		return "", result.Error
	}
	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), count+1), nil
}

// Create confirms the invoice for an order: mints the next number and
// stores the invoice row. Must run inside the caller's transaction so
// numbering and order state commit together.
func Create(tx *gorm.DB, orderID uint) (*model.Invoice, error) {
	number, err := NextNumber(tx)
	if err != nil {
		return nil, err
	}

	inv := model.Invoice{OrderID: orderID, InvoiceNumber: number}
	if result := tx.Create(&inv); result.Error != nil {
		return nil, result.Error
	}
	return &inv, nil
}
