package postgres

import (
	"context"
	"database/sql"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"
)

type leaseRepository struct {
	db *sql.DB
}

func NewLeaseRepository(db *sql.DB) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

// leaseColumns must stay in the order of leaseRow.dest
const leaseColumns = `
	l.lease_id, l.owner_id, l.renter_id, l.equipment_id, l.land_id,
	l.start_date, l.end_date, l.total_days, l.status, l.created_at,
	e.name, ld.location`

const leaseJoins = `
	LEFT JOIN equipment e ON e.equipment_id = l.equipment_id
	LEFT JOIN lands ld ON ld.land_id = l.land_id`

// leaseRow scans lease columns that may be NULL when reached through a LEFT JOIN
type leaseRow struct {
	id, ownerID, renterID     sql.NullInt32
	equipmentID, landID       sql.NullInt32
	start, end, created       sql.NullTime
	totalDays                 sql.NullInt32
	status                    sql.NullString
	equipmentName, landLocale sql.NullString
}

func (r *leaseRow) dest() []any {
	return []any{
		&r.id, &r.ownerID, &r.renterID, &r.equipmentID, &r.landID,
		&r.start, &r.end, &r.totalDays, &r.status, &r.created,
		&r.equipmentName, &r.landLocale,
	}
}

func (r *leaseRow) present() bool {
	return r.id.Valid
}

// build converts the row. A lease that references both or neither asset table
// keeps an empty AssetKind.
func (r *leaseRow) build() domain.Lease {
	l := domain.Lease{
		ID:        r.id.Int32,
		OwnerID:   r.ownerID.Int32,
		RenterID:  r.renterID.Int32,
		StartDate: r.start.Time,
		EndDate:   r.end.Time,
		TotalDays: int(r.totalDays.Int32),
		Status:    domain.LeaseStatus(r.status.String),
		CreatedAt: r.created.Time,
	}

	switch {
	case r.equipmentID.Valid && !r.landID.Valid:
		l.AssetKind = domain.AssetKindEquipment
		l.AssetID = r.equipmentID.Int32
		l.Equipment = &domain.Equipment{ID: l.AssetID, OwnerID: l.OwnerID, Name: r.equipmentName.String}
	case r.landID.Valid && !r.equipmentID.Valid:
		l.AssetKind = domain.AssetKindLand
		l.AssetID = r.landID.Int32
		l.Land = &domain.Land{ID: l.AssetID, OwnerID: l.OwnerID, Location: r.landLocale.String}
	default:
		logger.Warn("lease does not reference exactly one asset", "leaseID", l.ID)
	}
	return l
}

func (r *leaseRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Lease, error) {
	logger.EnterMethod("leaseRepository.ListByUser", "userID", userID)

	query := `SELECT ` + leaseColumns + `
		FROM leases l` + leaseJoins + `
		WHERE l.owner_id = $1 OR l.renter_id = $1
		ORDER BY l.created_at DESC, l.lease_id DESC`

	logger.DatabaseCall("leases.ListByUser", query, "userID", userID)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.ExitMethodWithError("leaseRepository.ListByUser", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	leases := []domain.Lease{}
	for rows.Next() {
		var row leaseRow
		if err := rows.Scan(row.dest()...); err != nil {
			logger.ExitMethodWithError("leaseRepository.ListByUser", err, "userID", userID)
			return nil, err
		}
		leases = append(leases, row.build())
	}
	if err := rows.Err(); err != nil {
		logger.ExitMethodWithError("leaseRepository.ListByUser", err, "userID", userID)
		return nil, err
	}

	logger.DatabaseResult("leases.ListByUser", int64(len(leases)), nil, "userID", userID)
	logger.ExitMethod("leaseRepository.ListByUser", "userID", userID, "count", len(leases))
	return leases, nil
}
