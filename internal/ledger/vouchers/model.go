package vouchers

import (
	"fmt"
	"time"
)

// VoucherType is a tenant-scoped document series with its own
// consecutive counter.
type VoucherType struct {
	ID                 int64     `json:"id"`
	TenantID           int64     `json:"-"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Prefix             string    `json:"prefix"`
	CurrentConsecutive int64     `json:"currentConsecutive"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// FormatNumber renders a voucher number from a prefix and a consecutive.
// The consecutive is zero padded to six digits, so the first number of a
// series with prefix RC is RC000001.
func FormatNumber(prefix string, consecutive int64) string {
	return fmt.Sprintf("%s%06d", prefix, consecutive)
}
