// Package draft implements the invoice-creation workflow: a mutable draft
// invoice owned by a single caller, its derived total, and submission of the
// completed payload. It is the embeddable core behind any invoice form.
package draft

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
	"go.uber.org/zap"
)

// Customer is the reference-data view of a selectable customer.
type Customer struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
}

// Product is the reference-data view of a selectable product.
type Product struct {
	ID    snowflake.ID    `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is one product+quantity+price entry in the draft. A zero
// ProductID means the row has not been filled in yet.
type LineItem struct {
	ProductID snowflake.ID
	Quantity  int64
	Price     decimal.Decimal
}

// Source loads the reference data the draft builder needs.
type Source interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	ListProducts(ctx context.Context) ([]Product, error)
	CurrentShop(ctx context.Context) (snowflake.ID, error)
}

// Submitter sends a completed invoice payload to the persistence collaborator.
type Submitter interface {
	CreateInvoice(ctx context.Context, req invoicedomain.CreateInvoiceRequest) error
}

var (
	ErrIndexOutOfRange = errors.New("line item index out of range")
	ErrUnknownCustomer = errors.New("unknown customer")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPayment  = errors.New("payment received must not be negative")
	ErrNoCustomer      = errors.New("no customer selected")
	ErrNoItems         = errors.New("draft has no line items")
	ErrIncompleteItem  = errors.New("line item has no product selected")
	ErrSubmitInFlight  = errors.New("submission already in flight")
)

// Builder holds the in-progress invoice and its reference data. It is not
// safe for concurrent mutation; like the form it models, a single goroutine
// drives it. Only the submission guard is concurrency-aware.
type Builder struct {
	log *zap.Logger
	now func() time.Time

	customers []Customer
	products  []Product
	shopID    snowflake.ID

	customerID      snowflake.ID
	items           []LineItem
	dueDate         time.Time
	paymentReceived decimal.Decimal
	total           decimal.Decimal

	submitting atomic.Bool
}

// New returns a builder with one blank line item and the due date set to
// today, mirroring a freshly opened form.
func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Builder{
		log: log.Named("invoice.draft"),
		now: func() time.Time { return time.Now().UTC() },
	}
	b.items = []LineItem{{Quantity: 1, Price: decimal.Zero}}
	b.dueDate = b.now().Truncate(24 * time.Hour)
	b.paymentReceived = decimal.Zero
	b.recompute()
	return b
}

// Load fetches customers, products and the current shop concurrently. Each
// load is independent; a failure leaves that slice empty and the builder
// usable, matching the form's degraded "no customers/products found" state.
func (b *Builder) Load(ctx context.Context, src Source) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		customers, err := src.ListCustomers(ctx)
		if err != nil {
			b.log.Warn("fetch customers", zap.Error(err))
			return
		}
		b.customers = customers
	}()

	go func() {
		defer wg.Done()
		products, err := src.ListProducts(ctx)
		if err != nil {
			b.log.Warn("fetch products", zap.Error(err))
			return
		}
		b.products = products
	}()

	go func() {
		defer wg.Done()
		shopID, err := src.CurrentShop(ctx)
		if err != nil {
			b.log.Warn("resolve shop", zap.Error(err))
			return
		}
		b.shopID = shopID
	}()

	wg.Wait()
}

// Customers returns the loaded customer reference data.
func (b *Builder) Customers() []Customer { return b.customers }

// Products returns the loaded product reference data.
func (b *Builder) Products() []Product { return b.products }

// ShopID returns the resolved shop context, or 0 if resolution failed.
func (b *Builder) ShopID() snowflake.ID { return b.shopID }

// Items returns a copy of the current line items in insertion order.
func (b *Builder) Items() []LineItem {
	out := make([]LineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Total returns the derived total, kept consistent with every mutation.
func (b *Builder) Total() decimal.Decimal { return b.total }

// PaymentReceived returns the recorded payment amount.
func (b *Builder) PaymentReceived() decimal.Decimal { return b.paymentReceived }

// DueDate returns the draft's due date.
func (b *Builder) DueDate() time.Time { return b.dueDate }

// CustomerID returns the selected customer, or 0 if none.
func (b *Builder) CustomerID() snowflake.ID { return b.customerID }

// AddItem appends a blank line item. There is no upper bound on item count.
func (b *Builder) AddItem() {
	b.items = append(b.items, LineItem{Quantity: 1, Price: decimal.Zero})
	b.recompute()
}

// RemoveItem deletes the item at index. Removing the last remaining item
// leaves an empty sequence; validation catches that at submission.
func (b *Builder) RemoveItem(index int) error {
	if index < 0 || index >= len(b.items) {
		return ErrIndexOutOfRange
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	b.recompute()
	return nil
}

// SetItemProduct points the item at index to productID and snapshots the
// product's current price onto the item. The snapshot is never re-read, so
// later price changes do not affect this draft. Unknown products are
// rejected and the item is left unchanged.
func (b *Builder) SetItemProduct(index int, productID snowflake.ID) error {
	if index < 0 || index >= len(b.items) {
		return ErrIndexOutOfRange
	}
	product, ok := b.findProduct(productID)
	if !ok {
		return ErrUnknownProduct
	}
	b.items[index].ProductID = product.ID
	b.items[index].Price = product.Price
	b.recompute()
	return nil
}

// SetItemQuantity sets the quantity of the item at index. Quantities below
// one are rejected at the boundary instead of flowing into the total.
func (b *Builder) SetItemQuantity(index int, quantity int64) error {
	if index < 0 || index >= len(b.items) {
		return ErrIndexOutOfRange
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	b.items[index].Quantity = quantity
	b.recompute()
	return nil
}

// SetCustomer selects a customer from the loaded reference data.
func (b *Builder) SetCustomer(customerID snowflake.ID) error {
	for _, c := range b.customers {
		if c.ID == customerID {
			b.customerID = customerID
			return nil
		}
	}
	return ErrUnknownCustomer
}

// SetDueDate sets the draft's due date.
func (b *Builder) SetDueDate(due time.Time) {
	b.dueDate = due
}

// SetPaymentReceived records the payment amount. Negative values are
// rejected at the boundary.
func (b *Builder) SetPaymentReceived(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidPayment
	}
	b.paymentReceived = amount
	return nil
}

func (b *Builder) findProduct(id snowflake.ID) (Product, bool) {
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (b *Builder) recompute() {
	total := decimal.Zero
	for _, item := range b.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	b.total = total
}

// Validate checks the draft is submittable: a customer is selected, at
// least one line item exists, and every item references a product with a
// positive quantity.
func (b *Builder) Validate() error {
	if b.customerID == 0 {
		return ErrNoCustomer
	}
	if len(b.items) == 0 {
		return ErrNoItems
	}
	for _, item := range b.items {
		if item.ProductID == 0 {
			return ErrIncompleteItem
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Payload builds the submission payload from the current draft. The status
// is derived by the classifier at this moment, and remainingAmount is
// exactly total minus payment, negative on overpayment.
func (b *Builder) Payload() (invoicedomain.CreateInvoiceRequest, error) {
	if err := b.Validate(); err != nil {
		return invoicedomain.CreateInvoiceRequest{}, err
	}

	items := make([]invoicedomain.CreateInvoiceItem, 0, len(b.items))
	for _, item := range b.items {
		items = append(items, invoicedomain.CreateInvoiceItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return invoicedomain.CreateInvoiceRequest{
		CustomerID:         b.customerID,
		TotalAmount:        b.total,
		PaymentReceived:    b.paymentReceived,
		RemainingAmount:    b.total.Sub(b.paymentReceived),
		DiscountAmount:     decimal.Zero,
		DiscountPercentage: decimal.Zero,
		DueDate:            b.dueDate.Format(invoicedomain.DueDateLayout),
		Items:              items,
		Status:             invoicedomain.Classify(b.total, b.paymentReceived, b.dueDate, b.now()),
	}, nil
}

// Submit validates the draft and sends it. While a submission is in flight
// further Submit calls return ErrSubmitInFlight; on failure the draft is
// left intact for a manual retry, on success it resets to a blank draft.
func (b *Builder) Submit(ctx context.Context, sub Submitter) error {
	if !b.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer b.submitting.Store(false)

	payload, err := b.Payload()
	if err != nil {
		return err
	}

	if err := sub.CreateInvoice(ctx, payload); err != nil {
		b.log.Warn("submit invoice", zap.Error(err))
		return err
	}

	b.reset()
	return nil
}

// Submitting reports whether a submission is currently in flight.
func (b *Builder) Submitting() bool { return b.submitting.Load() }

func (b *Builder) reset() {
	b.customerID = 0
	b.items = []LineItem{{Quantity: 1, Price: decimal.Zero}}
	b.dueDate = b.now().Truncate(24 * time.Hour)
	b.paymentReceived = decimal.Zero
	b.recompute()
}
