// Package analytics derives viewer-relative views of marketplace transactions:
// classification, earnings aggregation and the activity feed. Everything here
// is a pure function of its arguments.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"agrimarket-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPurchase       Kind = "purchase"
	KindSale           Kind = "sale"
	KindRentalAsOwner  Kind = "rental-as-owner"
	KindRentalAsRenter Kind = "rental-as-renter"
	KindUnknown        Kind = "unknown"
)

// IsRental reports whether k is one of the two lease kinds
func (k Kind) IsRental() bool {
	return k == KindRentalAsOwner || k == KindRentalAsRenter
}

type Sign string

const (
	SignCredit Sign = "credit"
	SignDebit  Sign = "debit"
	SignNone   Sign = "none"
)

type Category string

const (
	CategoryProduct   Category = "product"
	CategoryEquipment Category = "equipment"
	CategoryLand      Category = "land"
	CategoryUnknown   Category = "unknown"
)

// Counterparty placeholders used when the party object is absent
const (
	PartySeller   = "Seller"
	PartyCustomer = "Customer"
	PartyOwner    = "Owner"
	PartyRenter   = "Renter"
)

const (
	defaultUnit     = "kg"
	defaultCrop     = "product"
	defaultEquip    = "Equipment"
	defaultLocation = "unknown location"
)

// ClassifiedTransaction is a transaction enriched with its meaning for one viewer
type ClassifiedTransaction struct {
	Record           domain.Transaction       `json:"-"`
	ID               int32                    `json:"transaction_id"`
	Status           domain.TransactionStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
	PaymentMethod    domain.PaymentMethod     `json:"payment_method"`
	Kind             Kind                     `json:"kind"`
	Sign             Sign                     `json:"sign"`
	Category         Category                 `json:"category"`
	Icon             string                   `json:"icon"`
	Label            string                   `json:"label"`
	TypeLabel        string                   `json:"type_label"`
	CounterpartyRole string                   `json:"counterparty_role"`
	CounterpartyName string                   `json:"counterparty_name"`
	Amount           decimal.Decimal          `json:"amount"`
	AmountValid      bool                     `json:"amount_valid"`
	Asset            domain.AssetKey          `json:"asset"`
	Days             int                      `json:"days,omitempty"`
	Quantity         decimal.Decimal          `json:"quantity"`
	Unit             string                   `json:"unit,omitempty"`
	ItemName         string                   `json:"item_name"`
}

// Completed reports whether the underlying transaction settled
func (c ClassifiedTransaction) Completed() bool {
	return c.Status == domain.TransactionStatusCompleted
}

// Classify determines what record means to viewerID. Malformed records come
// back as KindUnknown; Classify never fails.
func Classify(record domain.Transaction, viewerID int32) ClassifiedTransaction {
	c := ClassifiedTransaction{
		Record:        record,
		ID:            record.ID,
		Status:        record.Status,
		CreatedAt:     record.CreatedAt,
		PaymentMethod: record.PaymentMethod,
		Quantity:      decimal.Zero,
	}
	c.Amount, c.AmountValid = record.ParseAmount()

	if record.BuyerID != 0 && record.BuyerID == record.SellerID {
		return unknown(c)
	}

	switch s := record.Subject.(type) {
	case domain.ProductSubject:
		return classifyProduct(c, record, s, viewerID)
	case *domain.ProductSubject:
		if s == nil {
			return unknown(c)
		}
		return classifyProduct(c, record, *s, viewerID)
	case domain.LeaseSubject:
		return classifyLease(c, record, s.Lease, viewerID)
	case *domain.LeaseSubject:
		if s == nil {
			return unknown(c)
		}
		return classifyLease(c, record, s.Lease, viewerID)
	default:
		return unknown(c)
	}
}

// ClassifyAll classifies records in order
func ClassifyAll(records []domain.Transaction, viewerID int32) []ClassifiedTransaction {
	out := make([]ClassifiedTransaction, 0, len(records))
	for _, r := range records {
		out = append(out, Classify(r, viewerID))
	}
	return out
}

func classifyProduct(c ClassifiedTransaction, record domain.Transaction, p domain.ProductSubject, viewerID int32) ClassifiedTransaction {
	unit := orDefault(p.Unit, defaultUnit)
	crop := orDefault(p.CropName, defaultCrop)

	c.Category = CategoryProduct
	c.Icon = "🛒"
	c.Asset = domain.AssetKey{Kind: domain.AssetKindProduct, ID: p.ProductID}
	c.Quantity = p.Quantity
	c.Unit = unit
	c.ItemName = crop
	c.Label = fmt.Sprintf("%s %s %s", p.Quantity.String(), unit, crop)

	if viewerID == record.BuyerID {
		c.Kind = KindPurchase
		c.Sign = SignDebit
		c.TypeLabel = "Product Purchase"
		c.CounterpartyRole = PartySeller
		c.CounterpartyName = partyName(record.Seller, PartySeller)
	} else {
		c.Kind = KindSale
		c.Sign = SignCredit
		c.TypeLabel = "Product Sale"
		c.CounterpartyRole = PartyCustomer
		c.CounterpartyName = partyName(record.Buyer, PartyCustomer)
	}
	return c
}

func classifyLease(c ClassifiedTransaction, record domain.Transaction, l domain.Lease, viewerID int32) ClassifiedTransaction {
	// The paying side of a lease transaction is the renter.
	if (l.RenterID != 0 && record.BuyerID != 0 && l.RenterID != record.BuyerID) ||
		(l.OwnerID != 0 && record.SellerID != 0 && l.OwnerID != record.SellerID) {
		return unknown(c)
	}

	days := l.Days()
	c.Days = days
	c.Asset = domain.AssetKey{Kind: l.AssetKind, ID: l.AssetID}

	switch l.AssetKind {
	case domain.AssetKindEquipment:
		name := defaultEquip
		if l.Equipment != nil && l.Equipment.Name != "" {
			name = l.Equipment.Name
		}
		c.Category = CategoryEquipment
		c.Icon = "🛠️"
		c.TypeLabel = "Equipment Rental"
		c.ItemName = name
		c.Label = fmt.Sprintf("%s for %d days", name, days)
	case domain.AssetKindLand:
		location := defaultLocation
		if l.Land != nil && l.Land.Location != "" {
			location = l.Land.Location
		}
		c.Category = CategoryLand
		c.Icon = "🌾"
		c.TypeLabel = "Land Lease"
		c.ItemName = "Land in " + location
		c.Label = fmt.Sprintf("Land in %s for %d days", location, days)
	default:
		return unknown(c)
	}

	renterID := l.RenterID
	if renterID == 0 {
		renterID = record.BuyerID
	}
	if viewerID == renterID {
		c.Kind = KindRentalAsRenter
		c.Sign = SignDebit
		c.CounterpartyRole = PartyOwner
		owner := l.Owner
		if owner == nil {
			owner = record.Seller
		}
		c.CounterpartyName = partyName(owner, PartyOwner)
	} else {
		c.Kind = KindRentalAsOwner
		c.Sign = SignCredit
		c.CounterpartyRole = PartyRenter
		renter := l.Renter
		if renter == nil {
			renter = record.Buyer
		}
		c.CounterpartyName = partyName(renter, PartyRenter)
	}
	return c
}

func unknown(c ClassifiedTransaction) ClassifiedTransaction {
	c.Kind = KindUnknown
	c.Sign = SignNone
	c.Category = CategoryUnknown
	c.Icon = "❓"
	c.Label = "Unknown Item"
	c.TypeLabel = "Unknown"
	c.ItemName = "Unknown Item"
	c.Asset = domain.AssetKey{}
	c.Days = 0
	c.Quantity = decimal.Zero
	c.Unit = ""
	c.CounterpartyRole = ""
	c.CounterpartyName = ""
	return c
}

func partyName(u *domain.User, placeholder string) string {
	if name := u.DisplayName(); name != "" {
		return name
	}
	return placeholder
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Filter narrows a classified list the way the transactions screen does
type Filter string

const (
	FilterAll  Filter = "all"
	FilterBuy  Filter = "buy"
	FilterRent Filter = "rent"
)

// ParseFilter maps a query value to a Filter, defaulting to FilterAll
func ParseFilter(s string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterBuy:
		return FilterBuy, true
	case FilterRent:
		return FilterRent, true
	}
	return FilterAll, false
}

// Apply returns the transactions matching f, preserving order
func (f Filter) Apply(txs []ClassifiedTransaction) []ClassifiedTransaction {
	out := make([]ClassifiedTransaction, 0, len(txs))
	for _, t := range txs {
		switch f {
		case FilterBuy:
			if t.Category != CategoryProduct {
				continue
			}
		case FilterRent:
			if !t.Kind.IsRental() {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
