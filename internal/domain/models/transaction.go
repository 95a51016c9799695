// internal/domain/models/transaction.go
package models

import "time"

// PaymentMethod is how a transaction was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer:
		return true
	}
	return false
}

// Transaction lives at users/{uid}/transactions/{id}.
type Transaction struct {
	ID            string        `bson:"_id" json:"id"`
	Amount        float64       `bson:"amount" json:"amount"`
	Type          CategoryType  `bson:"type" json:"type"`
	CategoryID    string        `bson:"category_id" json:"category_id"`
	Description   string        `bson:"description" json:"description"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"payment_method"`
	Date          time.Time     `bson:"date" json:"date"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// Summary holds dashboard totals.
type Summary struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Investments float64 `json:"investments"`
	Savings     float64 `json:"savings"`
	Balance     float64 `json:"balance"`
	Count       int     `json:"count"`
}
