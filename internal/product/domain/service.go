package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// StockService applies signed quantity deltas to products. Negative deltas
// come from sales, positive from purchases; reversal negates them.
type StockService interface {
	ApplyDelta(ctx context.Context, productID snowflake.ID, delta int64) (int64, error)
}

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrNotFound        = errors.New("not_found")
)
