package model

import (
	"time"
)

// Product represents a catalog item sold by the shop
type Product struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null;index"`
	Price       float64 `json:"price" gorm:"not null"`
	Description string  `json:"description" gorm:"type:text"`
	ImageURL    string  `json:"image_url" gorm:"type:varchar(512)"`
	Stock       int     `json:"stock" gorm:"default:0"`
	Unit        string  `json:"unit" gorm:"type:varchar(100);comment:'Packaging label, e.g. Pack of 4'"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	OrderItems []OrderItem `json:"-" gorm:"foreignKey:ProductID"`
}

// Order represents a customer order, either synced from the cloud
// datastore or entered manually by an administrator
type Order struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CloudID      string    `json:"cloud_id" gorm:"type:varchar(255);uniqueIndex;comment:'ID assigned by the cloud datastore'"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(64);not null"`
	Total        float64   `json:"total" gorm:"not null"`
	Status       string    `json:"status" gorm:"type:varchar(32);default:'pending'"` // pending, confirmed, cancelled
	CreatedAt    time.Time `json:"created_at"`

	Items   []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Invoice *Invoice    `json:"invoice,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a single line of an order, snapshotting the unit price
// at the time the order was placed
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primarykey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Invoice is generated when an order is confirmed. Immutable once written.
type Invoice struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	OrderID       uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	InvoiceNumber string    `json:"invoice_number" gorm:"type:varchar(32);uniqueIndex;not null"` // INV-YYYY-XXXX
	FilePath      string    `json:"file_path" gorm:"type:varchar(512)"`
	CreatedAt     time.Time `json:"created_at"`

	Order *Order `json:"-" gorm:"foreignKey:OrderID;references:ID"`
}

// SyncLog records the outcome of one cloud sync run
type SyncLog struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime"`
	OrdersSynced int       `json:"orders_synced"`
	Status       string    `json:"status" gorm:"type:varchar(32)"` // success, failure
	ErrorMessage string    `json:"error_message" gorm:"type:text"`
}

// AdminConfig is a key/value row for back-office settings such as the
// hashed admin password
type AdminConfig struct {
	Key   string `json:"key" gorm:"primarykey;type:varchar(64)"`
	Value string `json:"value" gorm:"type:text;not null"`
}

// Well-known AdminConfig keys
const (
	AdminPasswordKey = "admin_password"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)
