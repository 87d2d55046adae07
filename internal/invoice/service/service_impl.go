package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/shopdesk/internal/customer/domain"
	"github.com/smallbiznis/shopdesk/internal/invoice/domain"
	productdomain "github.com/smallbiznis/shopdesk/internal/product/domain"
	"github.com/smallbiznis/shopdesk/internal/shopctx"
	"github.com/smallbiznis/shopdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Customers customerdomain.Repository
	Products  productdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	customers customerdomain.Repository
	products  productdomain.Repository

	now func() time.Time
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		customers: p.Customers,
		products:  p.Products,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	shopID, ok := shopctx.ShopIDFromContext(ctx)
	if !ok || shopID == 0 {
		return domain.Invoice{}, domain.ErrInvalidShop
	}

	if req.CustomerID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCustomer
	}
	customer, err := s.customers.FindByID(ctx, s.db, shopID, req.CustomerID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if customer == nil {
		return domain.Invoice{}, domain.ErrInvalidCustomer
	}

	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrNoItems
	}
	productIDs := make([]snowflake.ID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity < 1 || item.Price.IsNegative() {
			return domain.Invoice{}, domain.ErrInvalidItem
		}
		productIDs = append(productIDs, item.ProductID)
	}

	known, err := s.products.FindByIDs(ctx, s.db, shopID, productIDs)
	if err != nil {
		return domain.Invoice{}, err
	}
	knownByID := make(map[snowflake.ID]struct{}, len(known))
	for _, p := range known {
		knownByID[p.ID] = struct{}{}
	}
	for _, id := range productIDs {
		if _, ok := knownByID[id]; !ok {
			return domain.Invoice{}, domain.ErrUnknownProduct
		}
	}

	if req.PaymentReceived.IsNegative() {
		return domain.Invoice{}, domain.ErrInvalidPayment
	}

	dueDate, err := time.ParseInLocation(domain.DueDateLayout, strings.TrimSpace(req.DueDate), time.UTC)
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}

	// Totals are recomputed from the item snapshots; the payload's
	// totalAmount, remainingAmount and status are derived values and are
	// not trusted from the client.
	now := s.now()
	total := decimal.Zero
	items := make([]domain.InvoiceItem, 0, len(req.Items))
	invoiceID := s.genID.Generate()
	for _, item := range req.Items {
		amount := item.Price.Mul(decimal.NewFromInt(item.Quantity))
		total = total.Add(amount)
		items = append(items, domain.InvoiceItem{
			ID:        s.genID.Generate(),
			ShopID:    shopID,
			InvoiceID: invoiceID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Amount:    amount,
			CreatedAt: now,
		})
	}

	invoice := domain.Invoice{
		ID:                 invoiceID,
		ShopID:             shopID,
		CustomerID:         req.CustomerID,
		Status:             domain.Classify(total, req.PaymentReceived, dueDate, now),
		TotalAmount:        total,
		PaymentReceived:    req.PaymentReceived,
		RemainingAmount:    total.Sub(req.PaymentReceived),
		DiscountAmount:     decimal.Zero,
		DiscountPercentage: decimal.Zero,
		DueDate:            dueDate,
		Metadata:           datatypes.JSONMap{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice.Items = items
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", invoice.CustomerID.String()),
		zap.String("status", string(invoice.Status)),
		zap.String("total_amount", invoice.TotalAmount.String()),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	shopID, ok := shopctx.ShopIDFromContext(ctx)
	if !ok || shopID == 0 {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidShop
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, shopID, domain.ListInvoiceFilter{Status: req.Status}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	shopID, ok := shopctx.ShopIDFromContext(ctx)
	if !ok || shopID == 0 {
		return domain.Invoice{}, domain.ErrInvalidShop
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, shopID, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	lines, err := s.repo.FindItems(ctx, s.db, shopID, item.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	item.Items = lines

	return *item, nil
}
