package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vedran77/itemvault/internal/domain"
)

const itemColumns = "id, name, age, city, image, created_by"

type ItemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, age, city, image, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.Age, item.City, item.Image, item.CreatedBy,
	)
	return err
}

func (r *ItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, "SELECT "+itemColumns+" FROM items ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.queryItem(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", id)
}

// Update applies the non-nil fields of patch in a single statement and
// returns the stored item afterwards.
func (r *ItemRepo) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	query := `
		UPDATE items SET
			name = COALESCE($2, name),
			age = COALESCE($3, age),
			city = COALESCE($4, city),
			image = COALESCE($5, image)
		WHERE id = $1
		RETURNING ` + itemColumns

	return r.queryItem(ctx, query, id, patch.Name, patch.Age, patch.City, patch.Image)
}

// Delete removes the item and returns what was stored.
func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.queryItem(ctx, "DELETE FROM items WHERE id = $1 RETURNING "+itemColumns, id)
}

func (r *ItemRepo) queryItem(ctx context.Context, query string, args ...any) (*domain.Item, error) {
	var it domain.Item
	err := scanItem(r.db.QueryRow(ctx, query, args...), &it)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanItem(row pgx.Row, it *domain.Item) error {
	return row.Scan(&it.ID, &it.Name, &it.Age, &it.City, &it.Image, &it.CreatedBy)
}
