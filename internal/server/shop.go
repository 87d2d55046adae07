package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shopdomain "github.com/smallbiznis/shopdesk/internal/shop/domain"
)

// GetCurrentShop resolves the shop the request operates under. The form
// only uses this for display context; resolution failure maps to 404.
func (s *Server) GetCurrentShop(c *gin.Context) {
	resp, err := s.shopSvc.Resolve(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetShopByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.shopSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createShopRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shopSvc.Create(c.Request.Context(), shopdomain.CreateShopRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
