package customer

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("customer not found")

type CustomerRepository interface {
	// EnsureSchema creates the customers relation when absent. Idempotent,
	// safe to call on every request; never touches existing rows.
	EnsureSchema(ctx context.Context) error

	// Insert persists a new customer and fills in the assigned ID.
	Insert(ctx context.Context, customer *Customer) error

	// FindAll returns every customer ordered by ID descending (newest first).
	FindAll(ctx context.Context) ([]*Customer, error)

	// Delete removes the customer with the given ID and returns the deleted
	// row, or ErrNotFound when no row matched.
	Delete(ctx context.Context, customerID int64) (*Customer, error)
}
