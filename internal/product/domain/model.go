package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	ShopID    snowflake.ID      `json:"shop_id" gorm:"column:shop_id;not null;index"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Price     decimal.Decimal   `json:"price" gorm:"type:decimal(18,4);not null"`
	Active    bool              `json:"active" gorm:"not null;default:true"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
