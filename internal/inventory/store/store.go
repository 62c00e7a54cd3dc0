package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Put(ctx context.Context, item *inventory.Item) error {
	query := `
		INSERT INTO inventory (product_id, name, stock, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id) DO UPDATE SET name = EXCLUDED.name, stock = EXCLUDED.stock, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, item.ProductID, item.Name, item.Stock); err != nil {
		return fmt.Errorf("saving inventory item: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, productID uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item

	err := s.db.QueryRowContext(ctx,
		`SELECT product_id, name, stock FROM inventory WHERE product_id = $1`, productID,
	).Scan(&item.ProductID, &item.Name, &item.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("product", productID)
		}

		return nil, fmt.Errorf("getting inventory item: %w", err)
	}

	return &item, nil
}

func (s *Store) IncrementStock(ctx context.Context, productID uuid.UUID, qty int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE inventory SET stock = stock + $1, updated_at = NOW() WHERE product_id = $2`, qty, productID)
	if err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	if n == 0 {
		return errs.NotFound("product", productID)
	}

	return nil
}
