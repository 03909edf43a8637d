package models

import "gorm.io/gorm"

// Product represents a dessert in the catalog.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"productName" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"imgUrl" validate:"omitempty,url"`
	gorm.Model  `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
