package thirdparties

import "time"

// ThirdParty is a subledger counterparty referenced from detail lines.
type ThirdParty struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"-"`
	DocumentType   string    `json:"documentType"`
	DocumentNumber string    `json:"documentNumber"`
	Name           string    `json:"name"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
