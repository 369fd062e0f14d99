package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

// Service handles the local-password signup and login path.
type Service struct {
	store users.Store
	now   func() time.Time
}

func NewService(store users.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Register creates a fresh visitor account with a hashed password.
// An existing email surfaces as a conflict.
func (s *Service) Register(
	ctx context.Context,
	name string,
	email string,
	password string,
) (*users.User, error) {

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Name:         name,
		Email:        users.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         users.RoleVisitor,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email + password and refreshes last_login.
// Whether the account exists, has no password, or the password is
// wrong is deliberately indistinguishable to the caller.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*users.User, error) {

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	user.LastLogin = s.now()
	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
