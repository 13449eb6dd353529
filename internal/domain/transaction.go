package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodDemo       PaymentMethod = "demo"
)

// Subject is what a transaction pays for. Exactly one of ProductSubject or
// LeaseSubject; a nil Subject marks a malformed record.
type Subject interface {
	subject()
}

type ProductSubject struct {
	ProductID int32           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CropName  string          `json:"crop_name"`
	Unit      string          `json:"unit"`
}

func (ProductSubject) subject() {}

type LeaseSubject struct {
	Lease Lease `json:"lease"`
}

func (LeaseSubject) subject() {}

type Transaction struct {
	ID            int32             `json:"transaction_id"`
	BuyerID       int32             `json:"buyer_id"`
	SellerID      int32             `json:"seller_id"`
	Status        TransactionStatus `json:"status"`
	TotalAmount   string            `json:"total_amount"` // raw decimal text, parsed by consumers
	CreatedAt     time.Time         `json:"createdAt"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Subject       Subject           `json:"-"`
	Buyer         *User             `json:"buyer,omitempty"`
	Seller        *User             `json:"seller,omitempty"`
}

// ParseAmount parses TotalAmount. ok is false for empty, non-numeric or
// negative values, in which case the zero amount is returned.
func (t Transaction) ParseAmount() (amount decimal.Decimal, ok bool) {
	if t.TotalAmount == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(t.TotalAmount)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
