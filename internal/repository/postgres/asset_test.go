package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRepository_Lists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssetRepository(db)
	ctx := context.Background()

	t.Run("Products", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"product_id", "farmer_id", "crop_name", "unit", "price_per_kg", "quantity_available", "is_available"}).
			AddRow(int64(1), int64(5), "Wheat", "kg", "32.50", "120", true).
			AddRow(int64(2), int64(5), "Rice", "quintal", "40", "0", false)
		mock.ExpectQuery("SELECT (.+) FROM products WHERE farmer_id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(rows)

		products, err := repo.ListProductsByFarmer(ctx, 5)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "32.5", products[0].PricePerKg.String())
		assert.Equal(t, "quintal", products[1].Unit)
		assert.False(t, products[1].Available())
	})

	t.Run("Equipment", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"equipment_id", "owner_id", "name", "category", "price_per_day", "is_available"}).
			AddRow(int64(9), int64(5), "Tractor", "heavy", "1500", true)
		mock.ExpectQuery("SELECT (.+) FROM equipment WHERE owner_id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(rows)

		items, err := repo.ListEquipmentByOwner(ctx, 5)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.AssetKey{Kind: domain.AssetKindEquipment, ID: 9}, items[0].Key())
	})

	t.Run("Lands", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"land_id", "owner_id", "location", "size_in_acres", "price_per_day", "is_available"}).
			AddRow(int64(4), int64(5), "Nashik", "2.5", "800", true)
		mock.ExpectQuery("SELECT (.+) FROM lands WHERE owner_id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(rows)

		lands, err := repo.ListLandsByOwner(ctx, 5)
		require.NoError(t, err)
		require.Len(t, lands, 1)
		assert.Equal(t, "2.5", lands[0].SizeInAcres.String())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAssetRepository(db)
	ctx := context.Background()

	t.Run("Equipment found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM equipment WHERE equipment_id = \\$1").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows([]string{"equipment_id", "owner_id", "name", "category", "price_per_day", "is_available"}).
				AddRow(int64(9), int64(5), "Harvester", "", "2000.00", true))

		e, err := repo.GetEquipment(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, "Harvester", e.Name)
		assert.Equal(t, "2000", e.UnitPrice().String())
	})

	t.Run("Land missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM lands WHERE land_id = \\$1").
			WithArgs(int32(40)).
			WillReturnError(sql.ErrNoRows)

		l, err := repo.GetLand(ctx, 40)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, l)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()
	columns := []string{"user_id", "first_name", "last_name", "email", "user_type"}

	t.Run("GetByID", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(5), "Asha", "Patil", "asha@example.com", "landowner"))

		u, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleLandowner, u.Role)
		assert.Equal(t, "Asha Patil", u.DisplayName())
	})

	t.Run("ListByRoles", func(t *testing.T) {
		roles := []domain.UserRole{domain.UserRoleLandowner, domain.UserRoleEquipmentOwner}
		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_type = ANY\\(\\$1\\)").
			WithArgs(pq.Array([]string{"landowner", "equipment_owner"})).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(5), "Asha", "Patil", "asha@example.com", "landowner").
				AddRow(int64(6), "", "", "owner@example.com", "equipment_owner"))

		users, err := repo.ListByRoles(ctx, roles)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "owner@example.com", users[1].DisplayName())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
