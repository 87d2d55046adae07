package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
)

type fakeInvoiceService struct {
	created   []invoicedomain.CreateInvoiceRequest
	createErr error
	getErr    error
	invoice   invoicedomain.Invoice
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	_ = ctx
	if f.createErr != nil {
		return invoicedomain.Invoice{}, f.createErr
	}
	f.created = append(f.created, req)
	return f.invoice, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	_ = ctx
	_ = req
	return invoicedomain.ListInvoiceResponse{}, nil
}

func (f *fakeInvoiceService) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	_ = ctx
	_ = id
	if f.getErr != nil {
		return invoicedomain.Invoice{}, f.getErr
	}
	return f.invoice, nil
}

func newInvoiceTestRouter(svc invoicedomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{invoiceSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/invoices", srv.ListInvoices)
	router.POST("/api/invoices", srv.CreateInvoice)
	router.GET("/api/invoices/:id", srv.GetInvoiceByID)
	return router
}

func TestCreateInvoicePassesPayloadToService(t *testing.T) {
	svc := &fakeInvoiceService{}
	router := newInvoiceTestRouter(svc)

	payload := `{
		"customerId": "41",
		"totalAmount": "200",
		"paymentReceived": "50",
		"remainingAmount": "150",
		"discountAmount": "0",
		"discountPercentage": "0",
		"dueDate": "2026-04-01",
		"items": [
			{"productId": "7", "quantity": 2, "price": "100"}
		],
		"status": "PARTIALLY_PAID"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(svc.created))
	}

	got := svc.created[0]
	if got.CustomerID != snowflake.ID(41) {
		t.Fatalf("expected customer 41, got %s", got.CustomerID)
	}
	if got.DueDate != "2026-04-01" {
		t.Fatalf("expected due date 2026-04-01, got %q", got.DueDate)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != snowflake.ID(7) || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
}

func TestCreateInvoiceMalformedBodyReturns400(t *testing.T) {
	svc := &fakeInvoiceService{}
	router := newInvoiceTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString(`{"items": [`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if len(svc.created) != 0 {
		t.Fatal("expected service not to be called for a malformed body")
	}
}

func TestCreateInvoiceUnknownProductReturns400(t *testing.T) {
	router := newInvoiceTestRouter(&fakeInvoiceService{
		createErr: invoicedomain.ErrUnknownProduct,
	})

	payload := `{
		"customerId": "41",
		"dueDate": "2026-04-01",
		"items": [{"productId": "999", "quantity": 1, "price": "10"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Type)
	}
}

func TestGetInvoiceByIDRejectsNonNumericID(t *testing.T) {
	router := newInvoiceTestRouter(&fakeInvoiceService{})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/not-an-id", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetInvoiceByIDNotFoundReturns404(t *testing.T) {
	router := newInvoiceTestRouter(&fakeInvoiceService{
		getErr: invoicedomain.ErrNotFound,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
