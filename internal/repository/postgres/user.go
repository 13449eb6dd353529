package postgres

import (
	"context"
	"database/sql"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT user_id, COALESCE(first_name, ''), COALESCE(last_name, ''), email, user_type FROM users WHERE user_id = $1`
	logger.DatabaseCall("users.GetByID", query, "userID", id)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role)
	if err != nil {
		logger.DatabaseResult("users.GetByID", 0, err, "userID", id)
		return nil, err
	}
	logger.DatabaseResult("users.GetByID", 1, nil, "userID", id)
	return u, nil
}

func (r *userRepository) ListByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error) {
	logger.EnterMethod("userRepository.ListByRoles", "roles", roles)

	roleStrs := make([]string, len(roles))
	for i, role := range roles {
		roleStrs[i] = string(role)
	}

	query := `
		SELECT user_id, COALESCE(first_name, ''), COALESCE(last_name, ''), email, user_type
		FROM users
		WHERE user_type = ANY($1)
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(roleStrs))
	if err != nil {
		logger.ExitMethodWithError("userRepository.ListByRoles", err)
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role); err != nil {
			logger.ExitMethodWithError("userRepository.ListByRoles", err)
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logger.ExitMethodWithError("userRepository.ListByRoles", err)
		return nil, err
	}

	logger.ExitMethod("userRepository.ListByRoles", "count", len(users))
	return users, nil
}
