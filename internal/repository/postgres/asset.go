package postgres

import (
	"context"
	"database/sql"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) repository.AssetRepository {
	return &assetRepository{db: db}
}

const (
	productColumns   = `product_id, farmer_id, crop_name, COALESCE(unit, 'kg'), price_per_kg, quantity_available, is_available`
	equipmentColumns = `equipment_id, owner_id, name, COALESCE(category, ''), price_per_day, is_available`
	landColumns      = `land_id, owner_id, location, size_in_acres, price_per_day, is_available`
)

func (r *assetRepository) ListProductsByFarmer(ctx context.Context, farmerID int32) ([]domain.Product, error) {
	logger.EnterMethod("assetRepository.ListProductsByFarmer", "farmerID", farmerID)

	query := `SELECT ` + productColumns + ` FROM products WHERE farmer_id = $1 ORDER BY product_id`
	rows, err := r.db.QueryContext(ctx, query, farmerID)
	if err != nil {
		logger.ExitMethodWithError("assetRepository.ListProductsByFarmer", err, "farmerID", farmerID)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.FarmerID, &p.CropName, &p.Unit, &p.PricePerKg, &p.QuantityAvailable, &p.IsAvailable); err != nil {
			logger.ExitMethodWithError("assetRepository.ListProductsByFarmer", err, "farmerID", farmerID)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("assetRepository.ListProductsByFarmer", "farmerID", farmerID, "count", len(products))
	return products, nil
}

func (r *assetRepository) ListEquipmentByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error) {
	logger.EnterMethod("assetRepository.ListEquipmentByOwner", "ownerID", ownerID)

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE owner_id = $1 ORDER BY equipment_id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.ExitMethodWithError("assetRepository.ListEquipmentByOwner", err, "ownerID", ownerID)
		return nil, err
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		var e domain.Equipment
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Category, &e.PricePerDay, &e.IsAvailable); err != nil {
			logger.ExitMethodWithError("assetRepository.ListEquipmentByOwner", err, "ownerID", ownerID)
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("assetRepository.ListEquipmentByOwner", "ownerID", ownerID, "count", len(items))
	return items, nil
}

func (r *assetRepository) ListLandsByOwner(ctx context.Context, ownerID int32) ([]domain.Land, error) {
	logger.EnterMethod("assetRepository.ListLandsByOwner", "ownerID", ownerID)

	query := `SELECT ` + landColumns + ` FROM lands WHERE owner_id = $1 ORDER BY land_id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.ExitMethodWithError("assetRepository.ListLandsByOwner", err, "ownerID", ownerID)
		return nil, err
	}
	defer rows.Close()

	lands := []domain.Land{}
	for rows.Next() {
		var l domain.Land
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Location, &l.SizeInAcres, &l.PricePerDay, &l.IsAvailable); err != nil {
			logger.ExitMethodWithError("assetRepository.ListLandsByOwner", err, "ownerID", ownerID)
			return nil, err
		}
		lands = append(lands, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("assetRepository.ListLandsByOwner", "ownerID", ownerID, "count", len(lands))
	return lands, nil
}

func (r *assetRepository) GetEquipment(ctx context.Context, id int32) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE equipment_id = $1`
	logger.DatabaseCall("equipment.GetByID", query, "equipmentID", id)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.OwnerID, &e.Name, &e.Category, &e.PricePerDay, &e.IsAvailable)
	if err != nil {
		logger.DatabaseResult("equipment.GetByID", 0, err, "equipmentID", id)
		return nil, err
	}
	logger.DatabaseResult("equipment.GetByID", 1, nil, "equipmentID", id)
	return e, nil
}

func (r *assetRepository) GetLand(ctx context.Context, id int32) (*domain.Land, error) {
	l := &domain.Land{}
	query := `SELECT ` + landColumns + ` FROM lands WHERE land_id = $1`
	logger.DatabaseCall("lands.GetByID", query, "landID", id)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.Location, &l.SizeInAcres, &l.PricePerDay, &l.IsAvailable)
	if err != nil {
		logger.DatabaseResult("lands.GetByID", 0, err, "landID", id)
		return nil, err
	}
	logger.DatabaseResult("lands.GetByID", 1, nil, "landID", id)
	return l, nil
}
