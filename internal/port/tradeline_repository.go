package port

import (
	"context"

	"github.com/google/uuid"

	"creditpipe/internal/domain"
)

// TradelineRepository persists extraction results. Upsert semantics key on
// (user_id, creditor_name, account_number) so re-processing a report updates
// existing rows instead of duplicating them.
type TradelineRepository interface {
	Upsert(ctx context.Context, tl *domain.Tradeline) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tradeline, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Tradeline, int, error)
	ListNegativeByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tradeline, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
