package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create stores a new user, assigning the next id.
	// An email already in use yields ALREADY_EXISTS.
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int) (*User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns every user ordered by id
	FindAll(ctx context.Context) ([]*User, error)
}
