package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/shopdesk/internal/shopctx"
	"go.uber.org/zap"
)

// HeaderShop carries an explicit shop (tenant) selection.
const HeaderShop = "X-Shop-ID"

// RequestLogger logs each request with latency and status.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.request")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// ShopContext resolves the shop the request operates under: the X-Shop-ID
// header when present, otherwise the configured default, otherwise the
// seeded default shop. Resolution failure is not fatal here; handlers that
// need a shop reject the request themselves.
func (s *Server) ShopContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID := snowflake.ID(0)

		if raw := strings.TrimSpace(c.GetHeader(HeaderShop)); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("shop", "invalid_shop", "invalid shop id"))
				return
			}
			shopID = parsed
		}

		if shopID == 0 && s.cfg.DefaultShopID != 0 {
			shopID = snowflake.ID(s.cfg.DefaultShopID)
		}

		if shopID == 0 {
			item, err := s.shopSvc.Resolve(c.Request.Context())
			if err != nil {
				s.log.Warn("resolve default shop", zap.Error(err))
			} else {
				shopID = item.ID
			}
		}

		if shopID != 0 {
			ctx := shopctx.WithShopID(c.Request.Context(), shopID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
