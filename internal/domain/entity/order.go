package entity

import (
	"time"
)

// Order is a related record hanging off Customer, used to exercise
// eager-loading of associations.
type Order struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	CustomerID uint64    `gorm:"index;not null" json:"customerId"`
	Reference  string    `gorm:"size:64;not null" validate:"required" json:"reference"`
	TotalCents int64     `validate:"gte=0" json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}
