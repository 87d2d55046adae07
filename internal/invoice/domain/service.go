package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopdesk/pkg/db/pagination"
)

// DueDateLayout is the calendar-date wire format for invoice due dates.
const DueDateLayout = "2006-01-02"

// CreateInvoiceItem is one submitted line item.
type CreateInvoiceItem struct {
	ProductID snowflake.ID    `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest is the invoice submission payload. TotalAmount,
// RemainingAmount and Status are recomputed server-side from the items,
// payment and due date; the submitted values are not trusted.
type CreateInvoiceRequest struct {
	CustomerID         snowflake.ID        `json:"customerId"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	PaymentReceived    decimal.Decimal     `json:"paymentReceived"`
	RemainingAmount    decimal.Decimal     `json:"remainingAmount"`
	DiscountAmount     decimal.Decimal     `json:"discountAmount"`
	DiscountPercentage decimal.Decimal     `json:"discountPercentage"`
	DueDate            string              `json:"dueDate"`
	Items              []CreateInvoiceItem `json:"items"`
	Status             InvoiceStatus       `json:"status"`
}

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int32
	Status    InvoiceStatus
}

type ListInvoiceFilter struct {
	Status InvoiceStatus
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrInvalidShop     = errors.New("invalid_shop")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrNoItems         = errors.New("no_items")
	ErrInvalidItem     = errors.New("invalid_item")
	ErrUnknownProduct  = errors.New("unknown_product")
	ErrInvalidPayment  = errors.New("invalid_payment")
	ErrInvalidDueDate  = errors.New("invalid_due_date")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
