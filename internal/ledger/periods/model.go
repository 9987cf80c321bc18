// Package periods implements the accounting period registry.
package periods

import "time"

// Status enumerates valid period states.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
	StatusLocked Status = "LOCKED"
)

// Period represents a fiscal month for a tenant. The (tenant, year, month)
// key is unique; a period is created once and never duplicated.
type Period struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"-"`
	Year        int        `json:"year"`
	Month       int        `json:"month"`
	Status      Status     `json:"status"`
	OpeningDate time.Time  `json:"openingDate"`
	ClosingDate *time.Time `json:"closingDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CanTransitionTo reports whether the lifecycle permits the change:
// OPEN→CLOSED, CLOSED→LOCKED, CLOSED→OPEN. LOCKED is terminal.
func (p Period) CanTransitionTo(next Status) bool {
	switch p.Status {
	case StatusOpen:
		return next == StatusClosed
	case StatusClosed:
		return next == StatusLocked || next == StatusOpen
	default:
		return false
	}
}
