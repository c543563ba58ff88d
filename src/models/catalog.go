package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sewn article (model). BaseRate is the default sewing rate
// used when a bundle carries no negotiated rate of its own.
type Product struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string          `gorm:"type:varchar(200);not null" json:"name"`
	BaseRate       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"base_rate"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

type Color struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Color) TableName() string {
	return "colors"
}

// PriceMemory keeps the last agreed sewing price per (counterparty, product),
// used to pre-fill invoice previews.
type PriceMemory struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_memory_key,unique" json:"organization_id"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_memory_key,unique" json:"counterparty_id"`
	ProductID      uint            `gorm:"not null;index:idx_price_memory_key,unique" json:"product_id"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (PriceMemory) TableName() string {
	return "price_memories"
}
