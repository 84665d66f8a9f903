package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/itemvault/internal/domain"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when no row matches.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	List(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Item, error)
}
