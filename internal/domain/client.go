package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownClientName labels clients submitted without a name.
const UnknownClientName = "Unknown Client"

// Client is a customer of the shop, matched by phone number.
type Client struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"nombre"`
	NationalID *string   `json:"identificacion,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"celular,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PhoneKey returns the phone number or an empty string.
func (c *Client) PhoneKey() string {
	if c == nil || c.Phone == nil {
		return ""
	}
	return *c.Phone
}
