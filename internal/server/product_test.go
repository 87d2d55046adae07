package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/shopdesk/internal/product/domain"
)

type fakeProductService struct {
	products []productdomain.Product
	listErr  error
}

func (f *fakeProductService) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Product, error) {
	_ = ctx
	return &productdomain.Product{
		ID:    snowflake.ID(20),
		Name:  req.Name,
		Price: req.Price,
	}, nil
}

func (f *fakeProductService) List(ctx context.Context, req productdomain.ListRequest) ([]productdomain.Product, error) {
	_ = ctx
	_ = req
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeProductService) Get(ctx context.Context, id string) (*productdomain.Product, error) {
	_ = ctx
	for i := range f.products {
		if f.products[i].ID.String() == id {
			return &f.products[i], nil
		}
	}
	return nil, productdomain.ErrNotFound
}

func newProductTestRouter(svc productdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{productSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/products", srv.ListProducts)
	router.POST("/api/products", srv.CreateProduct)
	router.GET("/api/products/:id", srv.GetProductByID)
	return router
}

func TestListProductsWrapsArrayInProductsField(t *testing.T) {
	router := newProductTestRouter(&fakeProductService{
		products: []productdomain.Product{
			{ID: snowflake.ID(1), Name: "Widget", Price: decimal.RequireFromString("19.99"), Active: true},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var body struct {
		Products []productdomain.Product `json:"products"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(body.Products))
	}
	if !body.Products[0].Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("expected price 19.99, got %s", body.Products[0].Price)
	}
}

func TestListProductsPriceSerializesAsString(t *testing.T) {
	router := newProductTestRouter(&fakeProductService{
		products: []productdomain.Product{
			{ID: snowflake.ID(1), Name: "Widget", Price: decimal.RequireFromString("19.99")},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var body struct {
		Products []struct {
			Price json.RawMessage `json:"price"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(body.Products))
	}
	if string(body.Products[0].Price) != `"19.99"` {
		t.Fatalf("expected quoted decimal string, got %s", body.Products[0].Price)
	}
}

func TestListProductsInvalidActiveFilterReturns400(t *testing.T) {
	router := newProductTestRouter(&fakeProductService{})

	req := httptest.NewRequest(http.MethodGet, "/api/products?active=banana", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetProductByIDNotFoundReturns404(t *testing.T) {
	router := newProductTestRouter(&fakeProductService{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
