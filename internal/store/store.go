// Package store persists reconstructed transactions. The extraction
// pipeline only needs the Store interface's write side; listing, filtering
// and summing serve the query commands built on top.
package store

import (
	"context"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Filter narrows a listing. Zero value matches everything; set fields are
// ANDed together.
type Filter struct {
	// Untagged keeps only transactions with no category assigned.
	Untagged bool
	// Category keeps transactions carrying the category at any level.
	Category string
	// Description keeps transactions whose description contains this
	// text, case-insensitively.
	Description string
}

// Store is the transaction sink and query surface.
type Store interface {
	// Save inserts the transaction when its ID is empty, assigning and
	// returning a new identity; otherwise it updates the existing row.
	Save(ctx context.Context, tx *models.Transaction) (string, error)
	// Has reports whether a transaction with the same statement identity
	// (timestamp, description, amount) is already stored.
	Has(ctx context.Context, tx *models.Transaction) (bool, error)
	// List returns matching transactions ordered by timestamp, then ID.
	List(ctx context.Context, f Filter) ([]*models.Transaction, error)
	// SumPence totals the matching transactions' amounts.
	SumPence(ctx context.Context, f Filter) (int64, error)
	// Close releases any underlying resources.
	Close() error
}
