package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	c := NewCustomer("Ada Lovelace", "ada@example.com")

	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.True(t, c.Active)
	assert.Zero(t, c.ID)
}

func TestCustomer_Deactivate(t *testing.T) {
	c := NewCustomer("Ada", "ada@example.com")
	c.Deactivate()
	assert.False(t, c.Active)
}
