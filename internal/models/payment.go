package models

import "time"

type Payment struct {
	ID            int       `db:"id" json:"id"`
	Amount        float64   `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Status        string    `db:"status" json:"status"`
	ReceiverName  string    `db:"receiver_name" json:"receiver_name"`
	ReceiverEmail *string   `db:"receiver_email" json:"receiver_email,omitempty"`
	Description   *string   `db:"description" json:"description,omitempty"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCrypto       PaymentMethod = "crypto"
)

func ValidPaymentStatus(status string) bool {
	switch PaymentStatus(status) {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	switch PaymentMethod(method) {
	case PaymentMethodCreditCard, PaymentMethodPaypal, PaymentMethodBankTransfer, PaymentMethodCrypto:
		return true
	}
	return false
}

type CreatePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	ReceiverName  string  `json:"receiver_name"`
	ReceiverEmail *string `json:"receiver_email"`
	Description   *string `json:"description"`
	Status        string  `json:"status"`
}

// PaymentFilter holds the optional, AND-combined listing filters. The date
// range is only applied when both bounds are present.
type PaymentFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentMethod string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// PaymentList is a page of payments plus the total count of rows matching
// the filters before pagination.
type PaymentList struct {
	Payments []Payment `json:"payments"`
	Total    int       `json:"total"`
}

type PeriodCounts struct {
	Today    int `json:"today"`
	ThisWeek int `json:"this_week"`
}

type PeriodAmounts struct {
	Today    float64 `json:"today"`
	ThisWeek float64 `json:"this_week"`
}

type PaymentStats struct {
	Transactions       PeriodCounts  `json:"transactions"`
	Revenue            PeriodAmounts `json:"revenue"`
	FailedTransactions PeriodCounts  `json:"failed_transactions"`
}

// DailyRevenue is one point of the revenue chart. Dates with no successful
// payments are omitted, not zero-filled.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}
