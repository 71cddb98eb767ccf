package model

import "time"

// Product is a menu item from the catalog.
type Product struct {
	ID          string  `gorm:"primaryKey;size:64" json:"id"`
	Name        string  `gorm:"size:256;not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"size:128;index" json:"category"`
	Image       string  `json:"image"`
	IsAvailable bool    `gorm:"default:true" json:"isAvailable"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups menu items for display.
type Category struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coupon is a discount rule applied at checkout.
type Coupon struct {
	ID         int64   `gorm:"primaryKey" json:"id"`
	Code       string  `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Percentage float64 `json:"percentage"`
	IsActive   bool    `gorm:"index" json:"isActive"`
	ScopeType  string  `gorm:"size:32" json:"scopeType"`
	ScopeValue string  `gorm:"size:128" json:"scopeValue"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
