package repository

import (
	"context"

	"agrimarket-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error)
}

// TransactionRepository reads transactions where the user is buyer or seller,
// newest first, with their subject, buyer and seller attached.
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID int32) ([]domain.Transaction, error)
}

// LeaseRepository reads leases where the user is owner or renter
type LeaseRepository interface {
	ListByUser(ctx context.Context, userID int32) ([]domain.Lease, error)
}

type AssetRepository interface {
	ListProductsByFarmer(ctx context.Context, farmerID int32) ([]domain.Product, error)
	ListEquipmentByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error)
	ListLandsByOwner(ctx context.Context, ownerID int32) ([]domain.Land, error)
	GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error)
	GetLand(ctx context.Context, id int32) (*domain.Land, error)
}
