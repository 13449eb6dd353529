package analytics

import (
	"math/rand"
	"testing"
	"time"

	"agrimarket-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func sale(id, assetID int32, amount string, at time.Time) ClassifiedTransaction {
	tx := productTx(id, 99, 1, amount)
	tx.CreatedAt = at
	p := tx.Subject.(domain.ProductSubject)
	p.ProductID = assetID
	tx.Subject = p
	return Classify(tx, 1)
}

func rentalOut(id, assetID int32, amount string, at time.Time) ClassifiedTransaction {
	tx := leaseTx(id, 99, 1, domain.AssetKindEquipment, amount)
	tx.CreatedAt = at
	ls := tx.Subject.(domain.LeaseSubject)
	ls.Lease.AssetID = assetID
	tx.Subject = ls
	return Classify(tx, 1)
}

func TestAggregate_Empty(t *testing.T) {
	s := NewAggregator(DefaultPolicy()).Aggregate(nil, nil, domain.Viewer{ID: 1}, asOf)

	assert.Equal(t, 0, s.PendingRequests)
	assert.Equal(t, 0, s.ActiveRentals)
	assert.Equal(t, 0, s.TransactionCount)
	assert.True(t, s.Revenue.Today.IsZero())
	assert.True(t, s.Revenue.AllTime.IsZero())
	assert.True(t, s.Expenses.AllTime.IsZero())
	assert.True(t, s.NetEarnings.IsZero())
	assert.NotNil(t, s.TopAssets)
	assert.Empty(t, s.TopAssets)
	assert.Equal(t, TrendStable, s.Trend)
}

func TestAggregate_LeaseCounts(t *testing.T) {
	leases := []domain.Lease{
		{ID: 1, OwnerID: 1, RenterID: 2, Status: domain.LeaseStatusPending},
		{ID: 2, OwnerID: 1, RenterID: 2, Status: domain.LeaseStatusActive},
		{ID: 3, OwnerID: 1, RenterID: 2, Status: domain.LeaseStatusCompleted},
		{ID: 4, OwnerID: 2, RenterID: 1, Status: domain.LeaseStatusActive},
		{ID: 5, OwnerID: 3, RenterID: 4, Status: domain.LeaseStatusPending},
	}

	t.Run("Default policy counts pending as active", func(t *testing.T) {
		s := NewAggregator(DefaultPolicy()).Aggregate(nil, leases, domain.Viewer{ID: 1}, asOf)
		assert.Equal(t, 1, s.PendingRequests)
		assert.Equal(t, 2, s.ActiveRentals)
		assert.Equal(t, 1, s.RentedByViewer)
	})

	t.Run("Strict policy", func(t *testing.T) {
		p := DefaultPolicy()
		p.ActiveRentalStatuses = []domain.LeaseStatus{domain.LeaseStatusActive}
		s := NewAggregator(p).Aggregate(nil, leases, domain.Viewer{ID: 1}, asOf)
		assert.Equal(t, 1, s.PendingRequests)
		assert.Equal(t, 1, s.ActiveRentals)
	})
}

func TestAggregate_Windows(t *testing.T) {
	txs := []ClassifiedTransaction{
		sale(1, 1, "10", asOf.Add(-1*time.Hour)),     // today
		sale(2, 1, "20", asOf.Add(-20*time.Hour)),    // yesterday, in week
		sale(3, 1, "40", asOf.Add(-10*24*time.Hour)), // in month
		sale(4, 1, "80", asOf.Add(-60*24*time.Hour)), // all time only
		sale(5, 1, "not-a-number", asOf),             // counted, adds zero
	}
	pending := sale(6, 1, "1000", asOf)
	pending.Status = domain.TransactionStatusPending
	txs = append(txs, pending)

	purchase := Classify(productTx(7, 1, 50, "15"), 1)
	purchase.CreatedAt = asOf
	txs = append(txs, purchase)

	s := NewAggregator(DefaultPolicy()).Aggregate(txs, nil, domain.Viewer{ID: 1}, asOf)

	assert.Equal(t, "10", s.Revenue.Today.String())
	assert.Equal(t, "30", s.Revenue.Week.String())
	assert.Equal(t, "70", s.Revenue.Month.String())
	assert.Equal(t, "150", s.Revenue.AllTime.String())
	assert.Equal(t, "15", s.Expenses.AllTime.String())
	assert.Equal(t, "135", s.NetEarnings.String())
	assert.Equal(t, 7, s.TransactionCount)
	assert.Equal(t, 1, s.UnparsableAmounts)
	assert.Equal(t, 1, s.PendingOrders)
	assert.Equal(t, 5, s.CompletedSales)
	assert.Equal(t, TrendGrowing, s.Trend)
}

func TestAggregate_WindowsAreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	agg := NewAggregator(DefaultPolicy())
	statuses := []domain.TransactionStatus{
		domain.TransactionStatusCompleted, domain.TransactionStatusPending, domain.TransactionStatusFailed,
	}

	for run := 0; run < 200; run++ {
		now := asOf.Add(time.Duration(rng.Intn(1000)) * time.Hour)
		n := rng.Intn(30)
		txs := make([]ClassifiedTransaction, 0, n)
		for i := 0; i < n; i++ {
			at := now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour).Add(time.Duration(rng.Intn(48)) * time.Hour)
			amount := decimal.New(int64(rng.Intn(100000)), -2).String()
			var c ClassifiedTransaction
			if rng.Intn(2) == 0 {
				c = sale(int32(i), int32(rng.Intn(5)), amount, at)
			} else {
				c = rentalOut(int32(i), int32(rng.Intn(5)), amount, at)
			}
			c.Status = statuses[rng.Intn(len(statuses))]
			txs = append(txs, c)
		}

		s := agg.Aggregate(txs, nil, domain.Viewer{ID: 1}, now)
		for _, w := range []Windows{s.Revenue, s.Expenses} {
			require.True(t, w.Today.LessThanOrEqual(w.Week), "run %d: today > week", run)
			require.True(t, w.Week.LessThanOrEqual(w.Month), "run %d: week > month", run)
			require.True(t, w.Month.LessThanOrEqual(w.AllTime), "run %d: month > all time", run)
		}
	}
}

func TestAggregate_TopAssets(t *testing.T) {
	at := asOf.Add(-time.Hour)

	t.Run("Ties broken by ascending asset id", func(t *testing.T) {
		txs := []ClassifiedTransaction{
			sale(1, 30, "300", at),
			sale(2, 20, "500", at),
			sale(3, 10, "500", at),
		}
		s := NewAggregator(DefaultPolicy()).Aggregate(txs, nil, domain.Viewer{ID: 1}, asOf)
		require.Len(t, s.TopAssets, 3)
		assert.Equal(t, int32(10), s.TopAssets[0].Asset.ID)
		assert.Equal(t, int32(20), s.TopAssets[1].Asset.ID)
		assert.Equal(t, int32(30), s.TopAssets[2].Asset.ID)
	})

	t.Run("Groups and truncates", func(t *testing.T) {
		txs := []ClassifiedTransaction{
			rentalOut(1, 1, "100", at),
			rentalOut(2, 1, "150", at),
			rentalOut(3, 2, "200", at),
			rentalOut(4, 3, "50", at),
			rentalOut(5, 4, "10", at),
			sale(6, 5, "400", at),
		}
		s := NewAggregator(DefaultPolicy()).Aggregate(txs, nil, domain.Viewer{ID: 1}, asOf)
		require.Len(t, s.TopAssets, 3)

		assert.Equal(t, domain.AssetKey{Kind: domain.AssetKindProduct, ID: 5}, s.TopAssets[0].Asset)
		assert.Equal(t, 1, s.TopAssets[0].SalesCount)
		assert.Equal(t, "5", s.TopAssets[0].TotalQuantity.String())

		first := s.TopAssets[1]
		assert.Equal(t, domain.AssetKey{Kind: domain.AssetKindEquipment, ID: 1}, first.Asset)
		assert.Equal(t, "250", first.TotalRevenue.String())
		assert.Equal(t, 2, first.RentalCount)
		assert.Equal(t, 6, first.TotalDays)
		assert.Equal(t, "Tractor", first.Name)

		assert.Equal(t, int32(2), s.TopAssets[2].Asset.ID)
	})

	t.Run("Category restriction and custom N", func(t *testing.T) {
		txs := []ClassifiedTransaction{
			rentalOut(1, 1, "100", at),
			sale(2, 5, "400", at),
		}
		p := DefaultPolicy()
		p.TopN = 1
		p.TopAssetCategories = []Category{CategoryEquipment}
		s := NewAggregator(p).Aggregate(txs, nil, domain.Viewer{ID: 1}, asOf)
		require.Len(t, s.TopAssets, 1)
		assert.Equal(t, CategoryEquipment, s.TopAssets[0].Category)
	})

	t.Run("Pending and debit transactions excluded", func(t *testing.T) {
		p := sale(1, 1, "100", at)
		p.Status = domain.TransactionStatusPending
		bought := Classify(productTx(2, 1, 50, "100"), 1)
		s := NewAggregator(DefaultPolicy()).Aggregate([]ClassifiedTransaction{p, bought}, nil, domain.Viewer{ID: 1}, asOf)
		assert.Empty(t, s.TopAssets)
	})
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	txs := []ClassifiedTransaction{sale(1, 2, "10", asOf), sale(2, 1, "20", asOf)}
	leases := []domain.Lease{{ID: 1, OwnerID: 1, Status: domain.LeaseStatusPending}}
	txCopy := append([]ClassifiedTransaction(nil), txs...)
	leaseCopy := append([]domain.Lease(nil), leases...)

	_ = NewAggregator(DefaultPolicy()).Aggregate(txs, leases, domain.Viewer{ID: 1}, asOf)
	assert.Equal(t, txCopy, txs)
	assert.Equal(t, leaseCopy, leases)
}

func TestCountAssets(t *testing.T) {
	assets := []domain.Asset{
		domain.Equipment{ID: 1, OwnerID: 1, IsAvailable: true},
		domain.Equipment{ID: 2, OwnerID: 1, IsAvailable: false},
		domain.Land{ID: 3, OwnerID: 1, IsAvailable: true},
		domain.Product{ID: 4, FarmerID: 2, IsAvailable: true},
		nil,
	}
	c := CountAssets(assets, 1)
	assert.Equal(t, 3, c.Total)
	assert.Equal(t, 2, c.Available)
	assert.Equal(t, AssetCounts{}, CountAssets(nil, 1))
}

func TestSummarizeLands(t *testing.T) {
	st := SummarizeLands([]domain.Land{
		{SizeInAcres: decimal.RequireFromString("2.5"), PricePerDay: decimal.NewFromInt(100)},
		{SizeInAcres: decimal.NewFromInt(4), PricePerDay: decimal.NewFromInt(150)},
		{SizeInAcres: decimal.NewFromInt(1), PricePerDay: decimal.NewFromInt(101)},
	})
	assert.Equal(t, "7.5", st.TotalAcres.String())
	assert.Equal(t, "117", st.AverageDailyRate.String())

	empty := SummarizeLands(nil)
	assert.True(t, empty.TotalAcres.IsZero())
	assert.True(t, empty.AverageDailyRate.IsZero())
}
