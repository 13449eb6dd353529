package config

import (
	"fmt"
	"time"

	"agrimarket-backend/internal/analytics"
	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/utils"
)

// Policy converts the analytics section into an aggregator policy
func (a AnalyticsConfig) Policy() (analytics.Policy, error) {
	p := analytics.DefaultPolicy()
	if a.TopN > 0 {
		p.TopN = a.TopN
	}
	if len(a.ActiveRentalStatuses) > 0 {
		statuses := make([]domain.LeaseStatus, 0, len(a.ActiveRentalStatuses))
		for _, s := range a.ActiveRentalStatuses {
			status := domain.LeaseStatus(s)
			if !status.Valid() {
				return analytics.Policy{}, fmt.Errorf("unknown lease status in active_rental_statuses: %q", s)
			}
			statuses = append(statuses, status)
		}
		p.ActiveRentalStatuses = statuses
	}
	return p, nil
}

// QuoteOptions converts the analytics section into rental quote options
func (a AnalyticsConfig) QuoteOptions() (utils.QuoteOptions, error) {
	policy, err := utils.ParseZeroDurationPolicy(a.ZeroDurationPolicy)
	if err != nil {
		return utils.QuoteOptions{}, err
	}
	return utils.QuoteOptions{MinimumDays: a.MinimumRentDays, ZeroDuration: policy}, nil
}

// Location returns the timezone "today" is computed in
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}
