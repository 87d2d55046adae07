package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/shopdesk/internal/customer/domain"
	customerrepo "github.com/smallbiznis/shopdesk/internal/customer/repository"
	"github.com/smallbiznis/shopdesk/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/shopdesk/internal/invoice/repository"
	productdomain "github.com/smallbiznis/shopdesk/internal/product/domain"
	productrepo "github.com/smallbiznis/shopdesk/internal/product/repository"
	"github.com/smallbiznis/shopdesk/internal/shopctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc    *Service
	db     *gorm.DB
	node   *snowflake.Node
	shopID snowflake.ID
	ctx    context.Context

	customer customerdomain.Customer
	widget   productdomain.Product
	gadget   productdomain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svcInterface := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      invoicerepo.Provide(),
		Customers: customerrepo.Provide(),
		Products:  productrepo.Provide(),
	})
	svc := svcInterface.(*Service)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	shopID := node.Generate()
	now := time.Now().UTC()

	customer := customerdomain.Customer{
		ID:        node.Generate(),
		ShopID:    shopID,
		Name:      "Ada",
		Email:     "ada@example.com",
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&customer).Error)

	widget := productdomain.Product{
		ID: node.Generate(), ShopID: shopID, Name: "Widget",
		Price: decimal.RequireFromString("19.99"), Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	gadget := productdomain.Product{
		ID: node.Generate(), ShopID: shopID, Name: "Gadget",
		Price: decimal.RequireFromString("5.50"), Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&widget).Error)
	require.NoError(t, db.Create(&gadget).Error)

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		shopID:   shopID,
		ctx:      shopctx.WithShopID(context.Background(), shopID),
		customer: customer,
		widget:   widget,
		gadget:   gadget,
	}
}

func TestCreateInvoicePersistsDerivedValues(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		CustomerID:      f.customer.ID,
		PaymentReceived: decimal.RequireFromString("10"),
		DueDate:         "2026-03-20",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.widget.ID, Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ProductID: f.gadget.ID, Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "45.48", created.TotalAmount.String())
	assert.Equal(t, "35.48", created.RemainingAmount.String())
	assert.Equal(t, domain.InvoiceStatusPartiallyPaid, created.Status)
	assert.True(t, created.DiscountAmount.IsZero())
	assert.True(t, created.DiscountPercentage.IsZero())
	require.Len(t, created.Items, 2)

	// row really landed, items included on read-back
	loaded, err := f.svc.GetByID(f.ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, f.widget.ID, loaded.Items[0].ProductID)
	assert.Equal(t, "39.98", loaded.Items[0].Amount.String())
}

func TestCreateInvoiceRecomputesSubmittedTotals(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		// lying client: totals and status contradict the items
		TotalAmount:     decimal.RequireFromString("1"),
		RemainingAmount: decimal.RequireFromString("99999"),
		Status:          domain.InvoiceStatusPaid,
		PaymentReceived: decimal.Zero,
		DueDate:         "2026-03-01",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.widget.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "19.99", created.TotalAmount.String())
	assert.Equal(t, "19.99", created.RemainingAmount.String())
	// due date in the past, nothing paid
	assert.Equal(t, domain.InvoiceStatusOverdue, created.Status)
}

func TestCreateInvoiceOverpaymentKeepsExactRemaining(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		CustomerID:      f.customer.ID,
		PaymentReceived: decimal.RequireFromString("100"),
		DueDate:         "2026-03-20",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.gadget.ID, Quantity: 1, Price: decimal.RequireFromString("5.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "-94.5", created.RemainingAmount.String())
	assert.Equal(t, domain.InvoiceStatusPaid, created.Status)
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := newFixture(t)

	base := domain.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		DueDate:    "2026-03-20",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.widget.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	}

	tests := []struct {
		name    string
		mutate  func(req *domain.CreateInvoiceRequest)
		wantErr error
	}{
		{"unknown customer", func(r *domain.CreateInvoiceRequest) { r.CustomerID = f.node.Generate() }, domain.ErrInvalidCustomer},
		{"zero customer", func(r *domain.CreateInvoiceRequest) { r.CustomerID = 0 }, domain.ErrInvalidCustomer},
		{"no items", func(r *domain.CreateInvoiceRequest) { r.Items = nil }, domain.ErrNoItems},
		{"unselected product", func(r *domain.CreateInvoiceRequest) { r.Items[0].ProductID = 0 }, domain.ErrInvalidItem},
		{"zero quantity", func(r *domain.CreateInvoiceRequest) { r.Items[0].Quantity = 0 }, domain.ErrInvalidItem},
		{"negative price", func(r *domain.CreateInvoiceRequest) { r.Items[0].Price = decimal.RequireFromString("-1") }, domain.ErrInvalidItem},
		{"unknown product", func(r *domain.CreateInvoiceRequest) { r.Items[0].ProductID = f.node.Generate() }, domain.ErrUnknownProduct},
		{"negative payment", func(r *domain.CreateInvoiceRequest) { r.PaymentReceived = decimal.RequireFromString("-1") }, domain.ErrInvalidPayment},
		{"bad due date", func(r *domain.CreateInvoiceRequest) { r.DueDate = "20/03/2026" }, domain.ErrInvalidDueDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Items = append([]domain.CreateInvoiceItem(nil), base.Items...)
			tt.mutate(&req)
			_, err := f.svc.Create(f.ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateInvoiceRequiresShopContext(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		DueDate:    "2026-03-20",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.widget.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidShop)
}

func TestListInvoicesScopedToShop(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		CustomerID:      f.customer.ID,
		PaymentReceived: decimal.Zero,
		DueDate:         "2026-03-20",
		Items: []domain.CreateInvoiceItem{
			{ProductID: f.widget.ID, Quantity: 1, Price: decimal.RequireFromString("19.99")},
		},
	})
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, domain.InvoiceStatusPending, resp.Invoices[0].Status)

	otherCtx := shopctx.WithShopID(context.Background(), f.node.Generate())
	resp, err = f.svc.List(otherCtx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
}
