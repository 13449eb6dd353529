package analytics

import "github.com/shopspring/decimal"

// ListSummary is the footer of the transactions screen
type ListSummary struct {
	Total       int             `json:"total"`
	Purchases   int             `json:"purchases"`
	Rentals     int             `json:"rentals"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SummarizeList counts by subject and sums parsed amounts regardless of
// status. Unparsable amounts add nothing but the record is still counted.
func SummarizeList(txs []ClassifiedTransaction) ListSummary {
	s := ListSummary{TotalAmount: decimal.Zero}
	for _, t := range txs {
		s.Total++
		switch {
		case t.Category == CategoryProduct:
			s.Purchases++
		case t.Kind.IsRental():
			s.Rentals++
		}
		s.TotalAmount = s.TotalAmount.Add(t.Amount)
	}
	return s
}
