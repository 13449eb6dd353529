package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"
	"agrimarket-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type quoteService struct {
	assetRepo  repository.AssetRepository
	calculator *utils.QuoteCalculator
	loc        *time.Location
}

func NewQuoteService(assetRepo repository.AssetRepository, calculator *utils.QuoteCalculator, loc *time.Location) QuoteService {
	if loc == nil {
		loc = time.UTC
	}
	return &quoteService{
		assetRepo:  assetRepo,
		calculator: calculator,
		loc:        loc,
	}
}

// QuoteRental validates the requested dates against today and prices the
// rental at the asset's current daily rate. A failed validation is a result,
// not an error.
func (s *quoteService) QuoteRental(ctx context.Context, req QuoteRequest, today time.Time) (*QuoteResult, error) {
	logger.EnterMethod("quoteService.QuoteRental", "kind", req.AssetKind, "assetID", req.AssetID)

	result, price, err := s.lookup(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("quoteService.QuoteRental", err, "kind", req.AssetKind, "assetID", req.AssetID)
		return nil, err
	}

	start, err := utils.ParseDateIn(req.StartDate, s.loc)
	if err != nil {
		result.Validation = utils.ValidationResult{Reason: utils.ReasonInvalidDate}
		return result, nil
	}
	end, err := utils.ParseDateIn(req.EndDate, s.loc)
	if err != nil {
		result.Validation = utils.ValidationResult{Reason: utils.ReasonInvalidDate}
		return result, nil
	}

	result.Validation = s.calculator.Validate(start, end, today.In(s.loc))
	if !result.Validation.Valid {
		logger.ExitMethod("quoteService.QuoteRental", "reason", result.Validation.Reason)
		return result, nil
	}

	if !price.IsPositive() {
		result.Validation = utils.ValidationResult{Reason: utils.ReasonInvalidPrice}
		logger.ExitMethod("quoteService.QuoteRental", "reason", result.Validation.Reason, "assetID", req.AssetID)
		return result, nil
	}

	quote, err := s.calculator.Quote(price, start, end)
	if err != nil {
		logger.ExitMethodWithError("quoteService.QuoteRental", err, "assetID", req.AssetID)
		return nil, fmt.Errorf("failed to price rental: %w", err)
	}
	result.Quote = &quote

	logger.ExitMethod("quoteService.QuoteRental", "days", quote.TotalDays, "total", quote.TotalAmount)
	return result, nil
}

// lookup loads the asset and returns its daily rate
func (s *quoteService) lookup(ctx context.Context, req QuoteRequest) (*QuoteResult, decimal.Decimal, error) {
	var asset domain.Asset
	var name string

	switch req.AssetKind {
	case domain.AssetKindEquipment:
		e, err := s.assetRepo.GetEquipment(ctx, req.AssetID)
		if err != nil {
			return nil, decimal.Zero, notFound(err)
		}
		asset, name = *e, e.Name
	case domain.AssetKindLand:
		l, err := s.assetRepo.GetLand(ctx, req.AssetID)
		if err != nil {
			return nil, decimal.Zero, notFound(err)
		}
		asset, name = *l, fmt.Sprintf("Land in %s", l.Location)
	default:
		return nil, decimal.Zero, ErrUnsupportedAsset
	}

	return &QuoteResult{
		Asset:     asset.Key(),
		AssetName: name,
		Available: asset.Available(),
	}, asset.UnitPrice(), nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAssetNotFound
	}
	return fmt.Errorf("failed to load asset: %w", err)
}
