package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteService(t *testing.T, repo *MockAssetRepo, opts utils.QuoteOptions) service.QuoteService {
	t.Helper()
	calc, err := utils.NewQuoteCalculator(opts)
	require.NoError(t, err)
	return service.NewQuoteService(repo, calc, time.UTC)
}

func TestQuoteService_QuoteRental(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tractor := &domain.Equipment{ID: 9, OwnerID: 1, Name: "Tractor", PricePerDay: decimal.NewFromInt(1500), IsAvailable: true}

	t.Run("Equipment quote", func(t *testing.T) {
		repo := new(MockAssetRepo)
		repo.On("GetEquipment", ctx, int32(9)).Return(tractor, nil)
		svc := newQuoteService(t, repo, utils.QuoteOptions{})

		res, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindEquipment, AssetID: 9, StartDate: "2024-06-02", EndDate: "2024-06-05",
		}, today)
		require.NoError(t, err)
		assert.True(t, res.Validation.Valid)
		assert.Equal(t, "Tractor", res.AssetName)
		assert.True(t, res.Available)
		require.NotNil(t, res.Quote)
		assert.Equal(t, 3, res.Quote.TotalDays)
		assert.Equal(t, "4500", res.Quote.TotalAmount.String())
		repo.AssertExpectations(t)
	})

	t.Run("Land quote", func(t *testing.T) {
		repo := new(MockAssetRepo)
		repo.On("GetLand", ctx, int32(4)).Return(&domain.Land{ID: 4, Location: "Nashik", PricePerDay: decimal.RequireFromString("799.99")}, nil)
		svc := newQuoteService(t, repo, utils.QuoteOptions{})

		res, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindLand, AssetID: 4, StartDate: "2024-06-01", EndDate: "2024-06-03",
		}, today)
		require.NoError(t, err)
		assert.Equal(t, "Land in Nashik", res.AssetName)
		assert.Equal(t, domain.AssetKey{Kind: domain.AssetKindLand, ID: 4}, res.Asset)
		assert.Equal(t, "1599.98", res.Quote.TotalAmount.String())
		assert.False(t, res.Available)
	})

	t.Run("Validation failure is a result", func(t *testing.T) {
		repo := new(MockAssetRepo)
		repo.On("GetEquipment", ctx, int32(9)).Return(tractor, nil)
		svc := newQuoteService(t, repo, utils.QuoteOptions{MinimumDays: 7})

		tests := []struct {
			start, end, reason string
		}{
			{"2024-05-20", "2024-06-10", utils.ReasonStartInPast},
			{"2024-06-10", "2024-06-05", utils.ReasonEndBeforeStart},
			{"2024-06-02", "2024-06-04", utils.ReasonBelowMinimum},
			{"06/02/2024", "2024-06-04", utils.ReasonInvalidDate},
			{"2024-06-02", "", utils.ReasonInvalidDate},
		}
		for _, tt := range tests {
			res, err := svc.QuoteRental(ctx, service.QuoteRequest{
				AssetKind: domain.AssetKindEquipment, AssetID: 9, StartDate: tt.start, EndDate: tt.end,
			}, today)
			require.NoError(t, err)
			assert.False(t, res.Validation.Valid, tt.start)
			assert.Equal(t, tt.reason, res.Validation.Reason)
			assert.Nil(t, res.Quote)
		}
	})

	t.Run("Zero daily rate is not quoted", func(t *testing.T) {
		repo := new(MockAssetRepo)
		repo.On("GetEquipment", ctx, int32(11)).Return(&domain.Equipment{ID: 11, Name: "Sprayer", PricePerDay: decimal.Zero, IsAvailable: true}, nil)
		svc := newQuoteService(t, repo, utils.QuoteOptions{})

		res, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindEquipment, AssetID: 11, StartDate: "2024-06-02", EndDate: "2024-06-03",
		}, today)
		require.NoError(t, err)
		assert.False(t, res.Validation.Valid)
		assert.Equal(t, utils.ReasonInvalidPrice, res.Validation.Reason)
		assert.Nil(t, res.Quote)
	})

	t.Run("Asset not found", func(t *testing.T) {
		repo := new(MockAssetRepo)
		repo.On("GetLand", ctx, int32(40)).Return(nil, sql.ErrNoRows)
		svc := newQuoteService(t, repo, utils.QuoteOptions{})

		_, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindLand, AssetID: 40, StartDate: "2024-06-02", EndDate: "2024-06-03",
		}, today)
		assert.ErrorIs(t, err, service.ErrAssetNotFound)
	})

	t.Run("Repository failure", func(t *testing.T) {
		repo := new(MockAssetRepo)
		dbErr := errors.New("timeout")
		repo.On("GetEquipment", ctx, int32(9)).Return(nil, dbErr)
		svc := newQuoteService(t, repo, utils.QuoteOptions{})

		_, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindEquipment, AssetID: 9, StartDate: "2024-06-02", EndDate: "2024-06-03",
		}, today)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, service.ErrAssetNotFound)
	})

	t.Run("Products are not rentable", func(t *testing.T) {
		svc := newQuoteService(t, new(MockAssetRepo), utils.QuoteOptions{})
		_, err := svc.QuoteRental(ctx, service.QuoteRequest{
			AssetKind: domain.AssetKindProduct, AssetID: 1, StartDate: "2024-06-02", EndDate: "2024-06-03",
		}, today)
		assert.ErrorIs(t, err, service.ErrUnsupportedAsset)
	})
}
