package entity

import (
	"time"
)

// Customer is the sample aggregate persisted through the data-access layer.
// Validation tags describe the shape the engine enforces on flush; gorm tags
// describe the storage mapping.
type Customer struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" validate:"required" json:"name"`
	Email     string    `gorm:"size:200;uniqueIndex" validate:"required,email" json:"email"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Orders is eager-loaded on demand via ListIncluding("Orders")
	Orders []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

// NewCustomer creates an active customer with the given identity fields
func NewCustomer(name, email string) *Customer {
	return &Customer{
		Name:   name,
		Email:  email,
		Active: true,
	}
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() {
	c.Active = false
}
