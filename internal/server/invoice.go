package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/shopdesk/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
	productdomain "github.com/smallbiznis/shopdesk/internal/product/domain"
	"github.com/smallbiznis/shopdesk/internal/providers/pdf"
	"github.com/smallbiznis/shopdesk/pkg/db/pagination"
	"go.uber.org/zap"
)

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    invoicedomain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	item, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) GetInvoicePDF(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	shopName := ""
	if item, err := s.shopSvc.Resolve(c.Request.Context()); err == nil {
		shopName = item.Name
	}

	billTo := ""
	customer, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: invoice.CustomerID.String(),
	})
	if err == nil {
		billTo = customer.Name
	}

	productNames := make(map[snowflake.ID]string, len(invoice.Items))
	for _, line := range invoice.Items {
		item, err := s.productSvc.Get(c.Request.Context(), line.ProductID.String())
		if err != nil {
			if err == productdomain.ErrNotFound {
				continue
			}
			AbortWithError(c, err)
			return
		}
		productNames[item.ID] = item.Name
	}

	items := make([]pdf.InvoiceItem, 0, len(invoice.Items))
	for _, line := range invoice.Items {
		items = append(items, pdf.InvoiceItem{
			Description: productNames[line.ProductID],
			Qty:         line.Quantity,
			UnitPrice:   line.Price.StringFixed(2),
			Amount:      line.Amount.StringFixed(2),
		})
	}

	doc, err := s.pdfProvider.GenerateInvoice(c.Request.Context(), pdf.InvoiceData{
		ShopName:        shopName,
		InvoiceNumber:   invoice.ID.String(),
		IssueDate:       invoice.CreatedAt.Format(invoicedomain.DueDateLayout),
		DueDate:         invoice.DueDate.Format(invoicedomain.DueDateLayout),
		Status:          string(invoice.Status),
		BillToName:      billTo,
		Items:           items,
		Total:           invoice.TotalAmount.StringFixed(2),
		PaymentReceived: invoice.PaymentReceived.StringFixed(2),
		AmountDue:       invoice.RemainingAmount.StringFixed(2),
	})
	if err != nil {
		s.log.Error("render invoice pdf", zap.String("invoice_id", id), zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}

	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
