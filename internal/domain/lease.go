package domain

import (
	"math"
	"time"
)

type LeaseStatus string

const (
	LeaseStatusPending   LeaseStatus = "pending"
	LeaseStatusApproved  LeaseStatus = "approved"
	LeaseStatusActive    LeaseStatus = "active"
	LeaseStatusCompleted LeaseStatus = "completed"
	LeaseStatusCancelled LeaseStatus = "cancelled"
	LeaseStatusRejected  LeaseStatus = "rejected"
)

// Valid reports whether s is a known lease status
func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseStatusPending, LeaseStatusApproved, LeaseStatusActive,
		LeaseStatusCompleted, LeaseStatusCancelled, LeaseStatusRejected:
		return true
	}
	return false
}

type Lease struct {
	ID        int32       `json:"lease_id"`
	OwnerID   int32       `json:"owner_id"`
	RenterID  int32       `json:"renter_id"`
	AssetKind AssetKind   `json:"asset_kind"`
	AssetID   int32       `json:"asset_id"`
	Equipment *Equipment  `json:"equipment,omitempty"`
	Land      *Land       `json:"land,omitempty"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	TotalDays int         `json:"total_days"`
	Status    LeaseStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Owner     *User       `json:"owner,omitempty"`
	Renter    *User       `json:"renter,omitempty"`
}

// Days returns the stored total, or derives it from the dates. Never below 1.
func (l Lease) Days() int {
	if l.TotalDays >= 1 {
		return l.TotalDays
	}
	days := CeilDays(l.StartDate, l.EndDate)
	if days < 1 {
		return 1
	}
	return days
}

// CeilDays returns ceil((end-start) / 24h) measured on the wall clock of
// start's location, so a daylight saving change never adds or drops a day.
// The result is negative when end precedes start.
func CeilDays(start, end time.Time) int {
	end = end.In(start.Location())
	return int(math.Ceil(wallClock(end).Sub(wallClock(start)).Hours() / 24))
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
