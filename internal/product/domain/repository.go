package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, shopID, id snowflake.ID) (*Product, error)
	FindByIDs(ctx context.Context, db *gorm.DB, shopID snowflake.ID, ids []snowflake.ID) ([]Product, error)
	List(ctx context.Context, db *gorm.DB, shopID snowflake.ID, filter ListRequest) ([]Product, error)
}
