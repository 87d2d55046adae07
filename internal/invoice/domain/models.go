// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus represents the payment classification of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusPending       InvoiceStatus = "PENDING"
)

// Invoice represents a submitted invoice.
type Invoice struct {
	ID                 snowflake.ID      `gorm:"primaryKey" json:"id"`
	ShopID             snowflake.ID      `gorm:"not null;index" json:"shop_id"`
	CustomerID         snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Status             InvoiceStatus     `gorm:"type:text;not null" json:"status"`
	TotalAmount        decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaymentReceived    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"payment_received"`
	RemainingAmount    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"remaining_amount"`
	DiscountAmount     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"discount_amount"`
	DiscountPercentage decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"discount_percentage"`
	DueDate            time.Time         `gorm:"not null" json:"due_date"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"-" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a line on an invoice. Price is the snapshot taken
// when the product was selected, not the product's current price.
type InvoiceItem struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	ShopID    snowflake.ID    `gorm:"not null;index" json:"shop_id"`
	InvoiceID snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	ProductID snowflake.ID    `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
