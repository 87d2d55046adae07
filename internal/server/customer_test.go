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
	customerdomain "github.com/smallbiznis/shopdesk/internal/customer/domain"
	"github.com/smallbiznis/shopdesk/pkg/db/pagination"
)

type fakeCustomerService struct {
	customers     []customerdomain.Customer
	nextPageToken string
	listErr       error
	createCalls   int
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	f.createCalls++
	_ = ctx
	return customerdomain.Customer{
		ID:    snowflake.ID(10),
		Name:  req.Name,
		Email: req.Email,
	}, nil
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	_ = ctx
	_ = req
	if f.listErr != nil {
		return customerdomain.ListCustomerResponse{}, f.listErr
	}
	return customerdomain.ListCustomerResponse{
		PageInfo:  pagination.PageInfo{NextPageToken: f.nextPageToken},
		Customers: f.customers,
	}, nil
}

func (f *fakeCustomerService) GetByID(ctx context.Context, req customerdomain.GetCustomerRequest) (customerdomain.Customer, error) {
	_ = ctx
	for _, c := range f.customers {
		if c.ID.String() == req.ID {
			return c, nil
		}
	}
	return customerdomain.Customer{}, customerdomain.ErrNotFound
}

func newCustomerTestRouter(svc customerdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{customerSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/customers", srv.ListCustomers)
	router.POST("/api/customers", srv.CreateCustomer)
	router.GET("/api/customers/:id", srv.GetCustomerByID)
	return router
}

func TestListCustomersReturnsBareArray(t *testing.T) {
	svc := &fakeCustomerService{
		customers: []customerdomain.Customer{
			{ID: snowflake.ID(1), Name: "John Doe", Email: "john@example.com"},
			{ID: snowflake.ID(2), Name: "Jane Smith", Email: "jane@example.com"},
		},
		nextPageToken: "next-token",
	}
	router := newCustomerTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var customers []customerdomain.Customer
	if err := json.Unmarshal(resp.Body.Bytes(), &customers); err != nil {
		t.Fatalf("expected a bare JSON array, got %q: %v", resp.Body.String(), err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].Name != "John Doe" {
		t.Fatalf("expected first customer John Doe, got %q", customers[0].Name)
	}
	if got := resp.Header().Get("X-Next-Page-Token"); got != "next-token" {
		t.Fatalf("expected next page token header, got %q", got)
	}
}

func TestListCustomersEmptyListIsStillAnArray(t *testing.T) {
	router := newCustomerTestRouter(&fakeCustomerService{
		customers: []customerdomain.Customer{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var customers []customerdomain.Customer
	if err := json.Unmarshal(resp.Body.Bytes(), &customers); err != nil {
		t.Fatalf("expected a bare JSON array, got %q: %v", resp.Body.String(), err)
	}
	if len(customers) != 0 {
		t.Fatalf("expected empty array, got %d entries", len(customers))
	}
}

func TestListCustomersValidationErrorReturns400(t *testing.T) {
	router := newCustomerTestRouter(&fakeCustomerService{
		listErr: customerdomain.ErrInvalidShop,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
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

func TestCreateCustomerMalformedBodyReturns400(t *testing.T) {
	svc := &fakeCustomerService{}
	router := newCustomerTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.createCalls != 0 {
		t.Fatal("expected service not to be called for a malformed body")
	}
}

func TestGetCustomerByIDNotFoundReturns404(t *testing.T) {
	router := newCustomerTestRouter(&fakeCustomerService{})

	req := httptest.NewRequest(http.MethodGet, "/api/customers/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
