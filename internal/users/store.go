package users

import "context"

// Store is the account persistence contract. Implementations must
// report uniqueness violations as apperrors.ErrConflict and missing
// records as apperrors.ErrNotFound; callers depend on the distinction.
// Each operation is individually atomic.
type Store interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByExternalID(ctx context.Context, googleID string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	List(ctx context.Context) ([]User, error)
}
