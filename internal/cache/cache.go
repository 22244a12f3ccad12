package cache

import (
	"context"
	"errors"

	"marketplace-backend/internal/model"
)

// ProductCache holds single-product reads served by GET /api/products/:id.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*model.Product, error)
	Set(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error
}

var ErrCacheMiss = errors.New("cache miss")
