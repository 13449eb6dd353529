package service

import (
	"context"
	"fmt"
	"time"

	"agrimarket-backend/internal/analytics"
	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"
)

// DashboardOptions are fixed for the lifetime of the service
type DashboardOptions struct {
	Policy        analytics.Policy
	ActivityLimit int
	Location      *time.Location
}

type dashboardService struct {
	txRepo        repository.TransactionRepository
	leaseRepo     repository.LeaseRepository
	assetRepo     repository.AssetRepository
	aggregator    *analytics.Aggregator
	activityLimit int
	loc           *time.Location
}

func NewDashboardService(
	txRepo repository.TransactionRepository,
	leaseRepo repository.LeaseRepository,
	assetRepo repository.AssetRepository,
	opts DashboardOptions,
) DashboardService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &dashboardService{
		txRepo:        txRepo,
		leaseRepo:     leaseRepo,
		assetRepo:     assetRepo,
		aggregator:    analytics.NewAggregator(opts.Policy),
		activityLimit: opts.ActivityLimit,
		loc:           opts.Location,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, viewer domain.Viewer, asOf time.Time) (*Dashboard, error) {
	logger.EnterMethod("dashboardService.GetDashboard", "viewerID", viewer.ID, "role", viewer.Role)

	if !validViewer(viewer) {
		logger.ExitMethodWithError("dashboardService.GetDashboard", ErrInvalidViewer, "viewerID", viewer.ID)
		return nil, ErrInvalidViewer
	}
	asOf = asOf.In(s.loc)

	txs, err := s.txRepo.ListByUser(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	leases, err := s.leaseRepo.ListByUser(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}

	classified := analytics.ClassifyAll(txs, viewer.ID)
	summary := s.aggregator.Aggregate(classified, leases, viewer, asOf)
	if summary.UnknownCount > 0 || summary.UnparsableAmounts > 0 {
		logger.FromContext(ctx).Warn("Dashboard built from malformed records",
			"viewerID", viewer.ID,
			"unknown", summary.UnknownCount,
			"unparsable_amounts", summary.UnparsableAmounts,
		)
	}

	d := &Dashboard{
		Viewer:         viewer,
		GeneratedAt:    asOf,
		Summary:        summary,
		RecentActivity: analytics.RecentActivity(classified, s.activityLimit, asOf),
	}
	if err := s.attachAssets(ctx, d); err != nil {
		logger.ExitMethodWithError("dashboardService.GetDashboard", err, "viewerID", viewer.ID)
		return nil, err
	}

	logger.ExitMethod("dashboardService.GetDashboard", "viewerID", viewer.ID, "transactions", summary.TransactionCount)
	return d, nil
}

// attachAssets loads the listings that match the viewer's role
func (s *dashboardService) attachAssets(ctx context.Context, d *Dashboard) error {
	ownerID := d.Viewer.ID
	var assets []domain.Asset

	switch d.Viewer.Role {
	case domain.UserRoleFarmer:
		products, err := s.assetRepo.ListProductsByFarmer(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		for _, p := range products {
			assets = append(assets, p)
		}
	case domain.UserRoleEquipmentOwner:
		items, err := s.assetRepo.ListEquipmentByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to list equipment: %w", err)
		}
		for _, e := range items {
			assets = append(assets, e)
		}
	case domain.UserRoleLandowner:
		lands, err := s.assetRepo.ListLandsByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to list lands: %w", err)
		}
		for _, l := range lands {
			assets = append(assets, l)
		}
		stats := analytics.SummarizeLands(lands)
		d.Lands = &stats
	}

	d.Assets = analytics.CountAssets(assets, ownerID)
	return nil
}

func (s *dashboardService) ListTransactions(ctx context.Context, viewer domain.Viewer, filter analytics.Filter) (*TransactionList, error) {
	logger.EnterMethod("dashboardService.ListTransactions", "viewerID", viewer.ID, "filter", filter)

	if !validViewer(viewer) {
		logger.ExitMethodWithError("dashboardService.ListTransactions", ErrInvalidViewer, "viewerID", viewer.ID)
		return nil, ErrInvalidViewer
	}

	txs, err := s.txRepo.ListByUser(ctx, viewer.ID)
	if err != nil {
		logger.ExitMethodWithError("dashboardService.ListTransactions", err, "viewerID", viewer.ID)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	filtered := filter.Apply(analytics.ClassifyAll(txs, viewer.ID))
	list := &TransactionList{
		Filter:       filter,
		Transactions: filtered,
		Summary:      analytics.SummarizeList(filtered),
	}

	logger.ExitMethod("dashboardService.ListTransactions", "viewerID", viewer.ID, "count", len(filtered))
	return list, nil
}

func validViewer(v domain.Viewer) bool {
	return v.ID > 0 && v.Role.Valid()
}
