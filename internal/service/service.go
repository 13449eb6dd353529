package service

import (
	"context"
	"errors"
	"time"

	"agrimarket-backend/internal/analytics"
	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/utils"
)

var (
	ErrInvalidViewer    = errors.New("invalid viewer")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrUnsupportedAsset = errors.New("asset kind cannot be rented")
)

// Dashboard is everything the owner dashboard shows for one viewer
type Dashboard struct {
	Viewer         domain.Viewer         `json:"viewer"`
	GeneratedAt    time.Time             `json:"generated_at"`
	Summary        analytics.Summary     `json:"summary"`
	Assets         analytics.AssetCounts `json:"assets"`
	Lands          *analytics.LandStats  `json:"lands,omitempty"`
	RecentActivity []analytics.Activity  `json:"recent_activity"`
}

// TransactionList is the filtered transaction history of one viewer
type TransactionList struct {
	Filter       analytics.Filter                  `json:"filter"`
	Transactions []analytics.ClassifiedTransaction `json:"transactions"`
	Summary      analytics.ListSummary             `json:"summary"`
}

type QuoteRequest struct {
	AssetKind domain.AssetKind `json:"asset_kind" validate:"required,oneof=equipment land"`
	AssetID   int32            `json:"asset_id" validate:"required,gt=0"`
	StartDate string           `json:"start_date" validate:"required"`
	EndDate   string           `json:"end_date" validate:"required"`
}

// QuoteResult carries either a failed validation or a priced quote
type QuoteResult struct {
	Asset      domain.AssetKey        `json:"asset"`
	AssetName  string                 `json:"asset_name"`
	Available  bool                   `json:"available"`
	Validation utils.ValidationResult `json:"validation"`
	Quote      *utils.RentalQuote     `json:"quote,omitempty"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context, viewer domain.Viewer, asOf time.Time) (*Dashboard, error)
	ListTransactions(ctx context.Context, viewer domain.Viewer, filter analytics.Filter) (*TransactionList, error)
}

type QuoteService interface {
	QuoteRental(ctx context.Context, req QuoteRequest, today time.Time) (*QuoteResult, error)
}

type EmailService interface {
	SendEarningsDigest(ctx context.Context, to domain.User, dashboard *Dashboard) error
}
