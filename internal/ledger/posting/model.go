package posting

import "time"

// Status is the lifecycle state of a journal transaction. VOID is reserved
// for reversal support; the posting engine only writes POSTED rows.
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusPosted Status = "POSTED"
	StatusVoid   Status = "VOID"
)

// Transaction is the header of a posted journal voucher.
type Transaction struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"-"`
	VoucherType   string    `json:"voucherType"`
	VoucherNumber string    `json:"voucherNumber"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	TotalDebit    float64   `json:"totalDebit"`
	TotalCredit   float64   `json:"totalCredit"`
	Status        Status    `json:"status"`
	PeriodID      int64     `json:"periodId"`
	ThirdPartyID  *int64    `json:"thirdPartyId,omitempty"`
	CreatedBy     int64     `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TransactionDetail is a single debit or credit line of a transaction.
type TransactionDetail struct {
	ID            int64   `json:"id"`
	TransactionID int64   `json:"transactionId"`
	AccountID     int64   `json:"accountId"`
	Description   string  `json:"description,omitempty"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	ThirdPartyID  *int64  `json:"thirdPartyId,omitempty"`
	CostCenterID  *int64  `json:"costCenterId,omitempty"`
}
