package postgres

import (
	"context"
	"database/sql"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	logger.EnterMethod("transactionRepository.ListByUser", "userID", userID)

	// total_amount is read as text so malformed values reach the classifier
	// instead of failing the whole scan.
	query := `
		SELECT t.transaction_id, t.buyer_id, t.seller_id, t.status,
		       COALESCE(t.total_amount::text, ''), COALESCE(t.payment_method, ''), t.created_at,
		       t.product_id, t.quantity, p.crop_name, p.unit,` + leaseColumns + `,
		       COALESCE(b.first_name, ''), COALESCE(b.last_name, ''), COALESCE(b.email, ''),
		       COALESCE(s.first_name, ''), COALESCE(s.last_name, ''), COALESCE(s.email, '')
		FROM transactions t
		LEFT JOIN products p ON p.product_id = t.product_id
		LEFT JOIN leases l ON l.lease_id = t.lease_id` + leaseJoins + `
		LEFT JOIN users b ON b.user_id = t.buyer_id
		LEFT JOIN users s ON s.user_id = t.seller_id
		WHERE t.buyer_id = $1 OR t.seller_id = $1
		ORDER BY t.created_at DESC, t.transaction_id DESC`

	logger.DatabaseCall("transactions.ListByUser", query, "userID", userID)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.ExitMethodWithError("transactionRepository.ListByUser", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var (
			t              domain.Transaction
			productID      sql.NullInt32
			quantity       decimal.NullDecimal
			cropName, unit sql.NullString
			lease          leaseRow
			buyer, seller  domain.User
		)
		dest := []any{
			&t.ID, &t.BuyerID, &t.SellerID, &t.Status,
			&t.TotalAmount, &t.PaymentMethod, &t.CreatedAt,
			&productID, &quantity, &cropName, &unit,
		}
		dest = append(dest, lease.dest()...)
		dest = append(dest,
			&buyer.FirstName, &buyer.LastName, &buyer.Email,
			&seller.FirstName, &seller.LastName, &seller.Email,
		)
		if err := rows.Scan(dest...); err != nil {
			logger.ExitMethodWithError("transactionRepository.ListByUser", err, "userID", userID)
			return nil, err
		}

		switch {
		case productID.Valid && lease.present():
			logger.Warn("transaction references both a product and a lease", "transactionID", t.ID)
		case productID.Valid:
			t.Subject = domain.ProductSubject{
				ProductID: productID.Int32,
				Quantity:  quantity.Decimal,
				CropName:  cropName.String,
				Unit:      unit.String,
			}
		case lease.present():
			t.Subject = domain.LeaseSubject{Lease: lease.build()}
		}

		t.Buyer = attachUser(t.BuyerID, buyer)
		t.Seller = attachUser(t.SellerID, seller)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		logger.ExitMethodWithError("transactionRepository.ListByUser", err, "userID", userID)
		return nil, err
	}

	logger.DatabaseResult("transactions.ListByUser", int64(len(txs)), nil, "userID", userID)
	logger.ExitMethod("transactionRepository.ListByUser", "userID", userID, "count", len(txs))
	return txs, nil
}

// attachUser returns nil when the joined user row was missing
func attachUser(id int32, u domain.User) *domain.User {
	if u.FirstName == "" && u.LastName == "" && u.Email == "" {
		return nil
	}
	u.ID = id
	return &u
}
