package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	shopdomain "github.com/smallbiznis/shopdesk/internal/shop/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultShopName = "Main"

// EnsureDefaultShop seeds the default shop for startup bootstrap.
func EnsureDefaultShop(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	return ensureDefaultShop(db, node.Generate())
}

// EnsureDefaultShopWithID seeds the default shop under a fixed ID so
// deployments can pin the tenant referenced by DEFAULT_SHOP.
func EnsureDefaultShopWithID(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed shop id is required")
	}

	return ensureDefaultShop(db, snowflake.ID(id))
}

func ensureDefaultShop(db *gorm.DB, id snowflake.ID) error {
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing shopdomain.Shop
		err := tx.Where("is_default = ?", true).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		return tx.Create(&shopdomain.Shop{
			ID:        id,
			Name:      defaultShopName,
			Slug:      slug.Make(defaultShopName),
			IsDefault: true,
			Metadata:  datatypes.JSONMap{},
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
}
