package usecase

import (
	"context"

	"libroteca/internal/entity"
)

// AccountRepository defines the contract for persisting accounts.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (entity.Account, error)
	Create(ctx context.Context, account *entity.Account) error
}
