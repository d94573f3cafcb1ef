package dto

import (
	"github.com/datatide/relstore/internal/domain/entity"
)

// RegisterCustomerRequest is the payload for creating a customer
type RegisterCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateEmailRequest is the payload for changing a customer's email
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID         uint64 `json:"id"`
	Reference  string `json:"reference"`
	TotalCents int64  `json:"totalCents"`
}

// CustomerResponse is the API shape of a customer
type CustomerResponse struct {
	ID     uint64          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Active bool            `json:"active"`
	Orders []OrderResponse `json:"orders,omitempty"`
}

// FromCustomer maps a customer entity to its API shape
func FromCustomer(c *entity.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:     c.ID,
		Name:   c.Name,
		Email:  c.Email,
		Active: c.Active,
	}
	for _, o := range c.Orders {
		resp.Orders = append(resp.Orders, OrderResponse{
			ID:         o.ID,
			Reference:  o.Reference,
			TotalCents: o.TotalCents,
		})
	}
	return resp
}

// FromCustomers maps a list of customer entities to their API shape
func FromCustomers(customers []*entity.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		responses = append(responses, FromCustomer(c))
	}
	return responses
}
