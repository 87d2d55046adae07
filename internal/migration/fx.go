package migration

import (
	"github.com/smallbiznis/shopdesk/internal/config"
	customerdomain "github.com/smallbiznis/shopdesk/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
	productdomain "github.com/smallbiznis/shopdesk/internal/product/domain"
	"github.com/smallbiznis/shopdesk/internal/seed"
	shopdomain "github.com/smallbiznis/shopdesk/internal/shop/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// the SQL migrations target postgres; other dialects are for
			// local development and get the schema from the models
			if err := conn.AutoMigrate(
				&shopdomain.Shop{},
				&customerdomain.Customer{},
				&productdomain.Product{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultShopID != 0 {
			return seed.EnsureDefaultShopWithID(conn, cfg.DefaultShopID)
		}
		return seed.EnsureDefaultShop(conn)
	}),
)
