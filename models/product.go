package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int                 `json:"id"`
	Title            string              `json:"title"`
	Description      *string             `json:"description"`
	PriceEur         decimal.Decimal     `json:"price_eur"`
	PriceLek         decimal.NullDecimal `json:"price_lek"`
	Stock            int                 `json:"stock"`
	CategoryID       *int                `json:"category_id"`
	Images           *string             `json:"images"` // JSON array of image objects or URLs
	IsFeatured       bool                `json:"is_featured"`
	IsOffer          bool                `json:"is_offer"`
	DiscountPriceEur decimal.NullDecimal `json:"discount_price_eur"`
	DiscountPriceLek decimal.NullDecimal `json:"discount_price_lek"`
	IsDraft          bool                `json:"is_draft"`
	Slug             *string             `json:"slug"`
	SourceURL        *string             `json:"source_url"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// UnitPriceLek returns the LEK price, zero for legacy rows without one.
func (p *Product) UnitPriceLek() decimal.Decimal {
	if p.PriceLek.Valid {
		return p.PriceLek.Decimal
	}
	return decimal.Zero
}

type ProductInput struct {
	Title            string              `json:"title" binding:"required"`
	Description      *string             `json:"description"`
	PriceEur         decimal.Decimal     `json:"price_eur"`
	PriceLek         decimal.NullDecimal `json:"price_lek"`
	Stock            int                 `json:"stock" binding:"gte=0"`
	CategoryID       *int                `json:"category_id"`
	Images           *string             `json:"images"`
	IsFeatured       bool                `json:"is_featured"`
	IsOffer          bool                `json:"is_offer"`
	DiscountPriceEur decimal.NullDecimal `json:"discount_price_eur"`
	DiscountPriceLek decimal.NullDecimal `json:"discount_price_lek"`
	IsDraft          bool                `json:"is_draft"`
	Slug             *string             `json:"slug"`
	SourceURL        *string             `json:"source_url"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}
