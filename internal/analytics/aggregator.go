package analytics

import (
	"sort"
	"time"

	"agrimarket-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	DefaultTopN = 3

	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// Policy holds the tunable rules of the aggregator. It is fixed when the
// Aggregator is constructed.
type Policy struct {
	// TopN is the length of the top assets list. Values below 1 mean DefaultTopN.
	TopN int
	// ActiveRentalStatuses are the lease statuses counted as an active rental.
	ActiveRentalStatuses []domain.LeaseStatus
	// TopAssetCategories restricts the top assets list. Empty means all.
	TopAssetCategories []Category
}

// DefaultPolicy counts pending leases as active, which is what every
// dashboard has shown so far.
func DefaultPolicy() Policy {
	return Policy{
		TopN:                 DefaultTopN,
		ActiveRentalStatuses: []domain.LeaseStatus{domain.LeaseStatusActive, domain.LeaseStatusPending},
	}
}

type Windows struct {
	Today   decimal.Decimal `json:"today"`
	Week    decimal.Decimal `json:"week"`
	Month   decimal.Decimal `json:"month"`
	AllTime decimal.Decimal `json:"all_time"`
}

func zeroWindows() Windows {
	return Windows{Today: decimal.Zero, Week: decimal.Zero, Month: decimal.Zero, AllTime: decimal.Zero}
}

type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// AssetPerformance is one row of the top assets list
type AssetPerformance struct {
	Asset         domain.AssetKey `json:"asset"`
	Category      Category        `json:"category"`
	Name          string          `json:"name"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	SalesCount    int             `json:"sales_count"`
	RentalCount   int             `json:"rental_count"`
	TotalDays     int             `json:"total_days"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

type Summary struct {
	PendingRequests   int                `json:"pending_requests"`
	ActiveRentals     int                `json:"active_rentals"`
	RentedByViewer    int                `json:"rented_by_viewer"`
	PendingOrders     int                `json:"pending_orders"`
	TransactionCount  int                `json:"transaction_count"`
	CompletedSales    int                `json:"completed_sales"`
	UnknownCount      int                `json:"unknown_count"`
	UnparsableAmounts int                `json:"unparsable_amounts"`
	Revenue           Windows            `json:"revenue"`
	Expenses          Windows            `json:"expenses"`
	NetEarnings       decimal.Decimal    `json:"net_earnings"`
	Trend             Trend              `json:"trend"`
	TopAssets         []AssetPerformance `json:"top_assets"`
}

type Aggregator struct {
	policy Policy
	active map[domain.LeaseStatus]bool
	topCat map[Category]bool
}

func NewAggregator(p Policy) *Aggregator {
	if p.TopN < 1 {
		p.TopN = DefaultTopN
	}
	a := &Aggregator{
		policy: p,
		active: make(map[domain.LeaseStatus]bool, len(p.ActiveRentalStatuses)),
		topCat: make(map[Category]bool, len(p.TopAssetCategories)),
	}
	for _, s := range p.ActiveRentalStatuses {
		a.active[s] = true
	}
	for _, c := range p.TopAssetCategories {
		a.topCat[c] = true
	}
	return a
}

// Policy returns the policy the aggregator was built with
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// Aggregate folds classified transactions and leases into viewer statistics.
// Inputs are not modified; the result depends only on the arguments.
func (a *Aggregator) Aggregate(txs []ClassifiedTransaction, leases []domain.Lease, viewer domain.Viewer, asOf time.Time) Summary {
	s := Summary{
		Revenue:   zeroWindows(),
		Expenses:  zeroWindows(),
		TopAssets: []AssetPerformance{},
	}

	for _, l := range leases {
		if l.OwnerID == viewer.ID {
			if l.Status == domain.LeaseStatusPending {
				s.PendingRequests++
			}
			if a.active[l.Status] {
				s.ActiveRentals++
			}
		}
		if l.RenterID == viewer.ID && a.active[l.Status] {
			s.RentedByViewer++
		}
	}

	midnight := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	weekAgo := asOf.Add(-weekWindow)
	monthAgo := asOf.Add(-monthWindow)

	groups := make(map[domain.AssetKey]*AssetPerformance)

	for _, t := range txs {
		s.TransactionCount++
		if t.Kind == KindUnknown {
			s.UnknownCount++
		}
		if !t.AmountValid {
			s.UnparsableAmounts++
		}
		if t.Sign == SignCredit && t.Status == domain.TransactionStatusPending {
			s.PendingOrders++
		}
		if !t.Completed() {
			continue
		}

		var w *Windows
		switch t.Sign {
		case SignCredit:
			w = &s.Revenue
			s.CompletedSales++
			a.accumulate(groups, t)
		case SignDebit:
			w = &s.Expenses
		default:
			continue
		}
		w.AllTime = w.AllTime.Add(t.Amount)
		if !t.CreatedAt.Before(monthAgo) {
			w.Month = w.Month.Add(t.Amount)
		}
		if !t.CreatedAt.Before(weekAgo) {
			w.Week = w.Week.Add(t.Amount)
		}
		if !t.CreatedAt.Before(midnight) {
			w.Today = w.Today.Add(t.Amount)
		}
	}

	s.NetEarnings = s.Revenue.AllTime.Sub(s.Expenses.AllTime)
	s.Trend = trendOf(s.Revenue)
	s.TopAssets = a.rank(groups)
	return s
}

func (a *Aggregator) accumulate(groups map[domain.AssetKey]*AssetPerformance, t ClassifiedTransaction) {
	if t.Kind != KindSale && t.Kind != KindRentalAsOwner {
		return
	}
	if len(a.topCat) > 0 && !a.topCat[t.Category] {
		return
	}
	g, ok := groups[t.Asset]
	if !ok {
		g = &AssetPerformance{
			Asset:         t.Asset,
			Category:      t.Category,
			Name:          t.ItemName,
			TotalRevenue:  decimal.Zero,
			TotalQuantity: decimal.Zero,
		}
		groups[t.Asset] = g
	}
	g.TotalRevenue = g.TotalRevenue.Add(t.Amount)
	if t.Kind == KindSale {
		g.SalesCount++
		g.TotalQuantity = g.TotalQuantity.Add(t.Quantity)
	} else {
		g.RentalCount++
		g.TotalDays += t.Days
	}
}

func (a *Aggregator) rank(groups map[domain.AssetKey]*AssetPerformance) []AssetPerformance {
	out := make([]AssetPerformance, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		if out[i].Asset.ID != out[j].Asset.ID {
			return out[i].Asset.ID < out[j].Asset.ID
		}
		return out[i].Asset.Kind < out[j].Asset.Kind
	})
	if len(out) > a.policy.TopN {
		out = out[:a.policy.TopN]
	}
	return out
}

// trendOf compares the last week against a quarter of the last month
func trendOf(r Windows) Trend {
	quarter := r.Month.Div(decimal.NewFromInt(4))
	switch r.Week.Cmp(quarter) {
	case 1:
		return TrendGrowing
	case -1:
		return TrendDeclining
	}
	return TrendStable
}

type AssetCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// CountAssets counts ownerID's listings. Unavailable listings never count as
// available.
func CountAssets(assets []domain.Asset, ownerID int32) AssetCounts {
	var c AssetCounts
	for _, a := range assets {
		if a == nil || a.Owner() != ownerID {
			continue
		}
		c.Total++
		if a.Available() {
			c.Available++
		}
	}
	return c
}

type LandStats struct {
	TotalAcres       decimal.Decimal `json:"total_acres"`
	AverageDailyRate decimal.Decimal `json:"average_daily_rate"`
}

// SummarizeLands totals acreage and averages the daily rate, rounded to 2 places
func SummarizeLands(lands []domain.Land) LandStats {
	st := LandStats{TotalAcres: decimal.Zero, AverageDailyRate: decimal.Zero}
	if len(lands) == 0 {
		return st
	}
	rates := decimal.Zero
	for _, l := range lands {
		st.TotalAcres = st.TotalAcres.Add(l.SizeInAcres)
		rates = rates.Add(l.PricePerDay)
	}
	st.AverageDailyRate = rates.Div(decimal.NewFromInt(int64(len(lands)))).Round(2)
	return st
}
