package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Item is the stock count of one product.
type Item struct {
	ProductID uuid.UUID
	Name      string
	Stock     int64
}

type Repository interface {
	// Put creates or replaces the row for item.ProductID.
	Put(ctx context.Context, item *Item) error
	Get(ctx context.Context, productID uuid.UUID) (*Item, error)
	// IncrementStock adds qty to the product's stock; errs.ErrNotFound when there is no row.
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int64) error
}
