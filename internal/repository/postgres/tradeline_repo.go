package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"creditpipe/internal/domain"
	"creditpipe/internal/port"
)

type tradelineRepo struct {
	db *sqlx.DB
}

// NewTradelineRepo creates a new PostgreSQL-backed TradelineRepository.
func NewTradelineRepo(db *sqlx.DB) port.TradelineRepository {
	return &tradelineRepo{db: db}
}

func (r *tradelineRepo) Upsert(ctx context.Context, tl *domain.Tradeline) error {
	now := time.Now().UTC()
	if tl.CreatedAt.IsZero() {
		tl.CreatedAt = now
	}
	tl.UpdatedAt = now

	query := `INSERT INTO tradelines (
		id, user_id, creditor_name, account_number,
		account_balance, credit_limit, monthly_payment, date_opened,
		account_type, account_status, credit_bureau,
		is_negative, dispute_count, raw_text, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11,
		$12, $13, $14, $15, $16
	)
	ON CONFLICT (user_id, creditor_name, account_number) DO UPDATE SET
		account_balance = EXCLUDED.account_balance,
		credit_limit = EXCLUDED.credit_limit,
		monthly_payment = EXCLUDED.monthly_payment,
		date_opened = EXCLUDED.date_opened,
		account_type = EXCLUDED.account_type,
		account_status = EXCLUDED.account_status,
		credit_bureau = EXCLUDED.credit_bureau,
		is_negative = EXCLUDED.is_negative,
		dispute_count = EXCLUDED.dispute_count,
		raw_text = EXCLUDED.raw_text,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		tl.ID, tl.UserID, tl.CreditorName, tl.AccountNumber,
		tl.AccountBalance, tl.CreditLimit, tl.MonthlyPayment, tl.DateOpened,
		tl.AccountType, tl.AccountStatus, tl.CreditBureau,
		tl.IsNegative, tl.DisputeCount, tl.RawText, tl.CreatedAt, tl.UpdatedAt,
	).Scan(&tl.ID, &tl.CreatedAt)
	if err != nil {
		return fmt.Errorf("tradelineRepo.Upsert: %w", err)
	}
	return nil
}

func (r *tradelineRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tradeline, error) {
	var tl domain.Tradeline
	err := r.db.GetContext(ctx, &tl,
		"SELECT * FROM tradelines WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTradelineNotFound
		}
		return nil, fmt.Errorf("tradelineRepo.GetByID: %w", err)
	}
	return &tl, nil
}

func (r *tradelineRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Tradeline, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM tradelines WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("tradelineRepo.ListByUser count: %w", err)
	}

	var tls []domain.Tradeline
	err = r.db.SelectContext(ctx, &tls,
		`SELECT * FROM tradelines WHERE user_id = $1
		 ORDER BY creditor_name ASC, account_number ASC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("tradelineRepo.ListByUser: %w", err)
	}
	return tls, total, nil
}

func (r *tradelineRepo) ListNegativeByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tradeline, error) {
	var tls []domain.Tradeline
	err := r.db.SelectContext(ctx, &tls,
		`SELECT * FROM tradelines WHERE user_id = $1 AND is_negative = TRUE
		 ORDER BY creditor_name ASC, account_number ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("tradelineRepo.ListNegativeByUser: %w", err)
	}
	return tls, nil
}

func (r *tradelineRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tradelines WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("tradelineRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTradelineNotFound
	}
	return nil
}
