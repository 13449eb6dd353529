package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultActivityLimit = 5

type Activity struct {
	TransactionID int32           `json:"transaction_id"`
	Message       string          `json:"message"`
	Amount        decimal.Decimal `json:"amount"`
	Icon          string          `json:"icon"`
	Type          Kind            `json:"type"`
	Person        string          `json:"person"`
	TimeAgo       string          `json:"time"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecentActivity returns up to limit feed entries in input order. Unknown
// records are skipped; they are reported through Summary.UnknownCount instead.
func RecentActivity(txs []ClassifiedTransaction, limit int, now time.Time) []Activity {
	if limit < 1 {
		limit = DefaultActivityLimit
	}
	out := make([]Activity, 0, limit)
	for _, t := range txs {
		if len(out) == limit {
			break
		}
		if t.Kind == KindUnknown {
			continue
		}
		out = append(out, Activity{
			TransactionID: t.ID,
			Message:       activityMessage(t),
			Amount:        t.Amount,
			Icon:          activityIcon(t),
			Type:          t.Kind,
			Person:        t.CounterpartyName,
			TimeAgo:       TimeAgo(t.CreatedAt, now),
			CreatedAt:     t.CreatedAt,
		})
	}
	return out
}

func activityMessage(t ClassifiedTransaction) string {
	switch t.Kind {
	case KindPurchase:
		return fmt.Sprintf("Bought %s %s %s", t.Quantity.String(), t.Unit, t.ItemName)
	case KindSale:
		return fmt.Sprintf("Sold %s %s %s", t.Quantity.String(), t.Unit, t.ItemName)
	case KindRentalAsRenter:
		return fmt.Sprintf("Rented %s for %d days", t.ItemName, t.Days)
	case KindRentalAsOwner:
		return fmt.Sprintf("%s rented out for %d days", t.ItemName, t.Days)
	}
	return t.Label
}

func activityIcon(t ClassifiedTransaction) string {
	if t.Sign == SignCredit {
		return "💰"
	}
	return t.Icon
}

// TimeAgo renders how long before now t happened, coarsening to a date after a week
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
	return t.Format("2006-01-02")
}
