package models

import (
	"strings"
	"time"
)

// PriceTier is the ordinal price category of a restaurant, rendered as
// currency-symbol repetition.
type PriceTier string

const (
	PriceLow    PriceTier = "¥"
	PriceMedium PriceTier = "¥¥"
	PriceHigh   PriceTier = "¥¥¥"
)

// ParsePriceTier accepts the symbol form or the low/medium/high names.
// An empty value is the lowest tier.
func ParsePriceTier(s string) (PriceTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "¥", "low":
		return PriceLow, true
	case "¥¥", "medium":
		return PriceMedium, true
	case "¥¥¥", "high":
		return PriceHigh, true
	}
	return "", false
}

type Restaurant struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	OwnerID    uint       `json:"-" gorm:"not null;index"`
	Owner      User       `json:"-" gorm:"foreignKey:OwnerID"`
	Name       string     `json:"name" gorm:"size:255;not null;index"`
	Area       string     `json:"area" gorm:"size:255"`
	Cuisine    string     `json:"cuisine" gorm:"size:255"`
	PriceLevel PriceTier  `json:"price_level" gorm:"size:16;not null;default:'¥'"`
	Halal      bool       `json:"halal" gorm:"not null;default:false"`
	ImageURL   *string    `json:"image_url" gorm:"size:512"`
	MenuItems  []MenuItem `json:"-" gorm:"foreignKey:RestaurantID"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

type MenuItem struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	RestaurantID uint     `json:"-" gorm:"not null;index"`
	Name         string   `json:"name" gorm:"size:255;not null"`
	Price        float64  `json:"price" gorm:"not null"`
	OldPrice     *float64 `json:"old_price"`
	Discount     *float64 `json:"discount"` // percent off, display only
	ImageURL     *string  `json:"image_url" gorm:"size:512"`
}
