package models

import "gorm.io/gorm"

// Product represents a product in the store. Prices are stored in the
// smallest currency unit to avoid floating point drift.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       int64    `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Images      []string `json:"images" gorm:"serializer:json"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductFilter narrows and orders a product listing. Query matches name or
// description as a substring.
type ProductFilter struct {
	Query    string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string // price_asc | price_desc | newest
	Page     int
	Limit    int
}
