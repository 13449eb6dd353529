package jobs

import (
	"context"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
)

var digestRoles = []domain.UserRole{
	domain.UserRoleFarmer,
	domain.UserRoleLandowner,
	domain.UserRoleEquipmentOwner,
}

// DigestResult counts what one digest run did
type DigestResult struct {
	Sent    int
	Skipped int
	Failed  int
}

// SendEarningsDigests emails every marketplace user their dashboard summary
func (jr *JobRunner) SendEarningsDigests() {
	jr.runWithRecovery("SendEarningsDigests", func() {
		res := jr.RunEarningsDigest(context.Background())
		logger.Info("Earnings digests processed", "sent", res.Sent, "skipped", res.Skipped, "failed", res.Failed)
	})
}

// RunEarningsDigest builds and sends one digest per user. A failure for one
// user is logged and does not stop the run.
func (jr *JobRunner) RunEarningsDigest(ctx context.Context) DigestResult {
	var res DigestResult

	users, err := jr.users.ListByRoles(ctx, digestRoles)
	if err != nil {
		logger.Error("Failed to list users for earnings digest", "error", err)
		return res
	}

	asOf := jr.now()
	for _, u := range users {
		if u.Email == "" {
			logger.Debug("Skipping digest for user without email", "user_id", u.ID)
			res.Skipped++
			continue
		}

		viewer := domain.Viewer{ID: u.ID, Role: u.Role}
		dashboard, err := jr.services.Dashboard.GetDashboard(ctx, viewer, asOf)
		if err != nil {
			logger.Error("Failed to build dashboard for digest", "user_id", u.ID, "error", err)
			res.Failed++
			continue
		}

		if err := jr.services.Email.SendEarningsDigest(ctx, u, dashboard); err != nil {
			logger.Error("Failed to send earnings digest", "user_id", u.ID, "error", err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res
}
