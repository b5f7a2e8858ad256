package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByName finds a user by exact name
	FindByName(ctx context.Context, name string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error
}

// OutletRepository defines the interface for outlet persistence
type OutletRepository interface {
	// FindByID finds an outlet by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Outlet, error)

	// FindAll finds all outlets matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Outlet, error)

	// Save creates or updates an outlet
	Save(ctx context.Context, outlet *Outlet) error

	// Delete deletes an outlet
	Delete(ctx context.Context, id uuid.UUID) error
}
