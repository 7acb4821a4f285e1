package domain

import (
	"context"

	"gorm.io/gorm"
)

// Service assigns and previews human-readable bill numbers.
type Service interface {
	// Next atomically increments and returns the next number for the
	// active business and kind, starting at 1.
	Next(ctx context.Context, kind Kind) (int64, error)
	// NextTx is Next against an explicit transaction handle, so a caller
	// can take the number inside the same transaction as its own insert.
	NextTx(ctx context.Context, tx *gorm.DB, kind Kind) (int64, error)
	// Peek returns the number the next bill would receive without
	// consuming it. A pure peek never creates a counter row.
	Peek(ctx context.Context, kind Kind) (int64, error)
}
