package establishment

import "context"

// Repository defines the registry store contract for establishment data.
// "Not found" reads return (nil, nil); constraint violations and connectivity
// loss return errors.
type Repository interface {
	// Create persists a new establishment and assigns its ID. Fails with a
	// duplicate slug error if the slug collides with an active establishment.
	Create(ctx context.Context, est *Establishment) error

	// GetByID retrieves an establishment by ID
	GetByID(ctx context.Context, id uint) (*Establishment, error)

	// GetBySlug retrieves an establishment by slug
	GetBySlug(ctx context.Context, slug string) (*Establishment, error)

	// GetAll retrieves all establishments, optionally only active ones
	GetAll(ctx context.Context, activeOnly bool) ([]*Establishment, error)

	// Update persists changes to an existing establishment
	Update(ctx context.Context, est *Establishment) error

	// Deactivate sets isActive = false. Returns (nil, nil) if the ID is
	// absent. Rows are never physically removed.
	Deactivate(ctx context.Context, id uint) (*Establishment, error)

	// Reactivate sets isActive = true. Returns (nil, nil) if the ID is absent.
	Reactivate(ctx context.Context, id uint) (*Establishment, error)
}
