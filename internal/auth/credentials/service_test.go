package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	store := users.NewMemStore()
	svc := NewService(store)

	user, err := svc.Register(context.Background(), "Alice", "Alice@X.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	authed, err := svc.Authenticate(context.Background(), "alice@x.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.False(t, authed.LastLogin.IsZero())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := users.NewMemStore()
	svc := NewService(store)

	_, err := svc.Register(context.Background(), "Alice", "a@x.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "A@x.com", "password2")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewService(users.NewMemStore())

	_, err := svc.Register(context.Background(), "Bob", "b@x.com", "short")
	require.Error(t, err)
}

func TestAuthenticateFailuresLookAlike(t *testing.T) {
	store := users.NewMemStore()
	svc := NewService(store)

	_, err := svc.Register(context.Background(), "Alice", "a@x.com", "password1")
	require.NoError(t, err)

	// OAuth-only account: no password path.
	require.NoError(t, store.Create(context.Background(), &users.User{
		Name: "Carol", Email: "c@x.com", GoogleID: "g1",
	}))

	_, errUnknown := svc.Authenticate(context.Background(), "nobody@x.com", "password1")
	_, errWrong := svc.Authenticate(context.Background(), "a@x.com", "wrong password")
	_, errNoPass := svc.Authenticate(context.Background(), "c@x.com", "password1")

	assert.ErrorIs(t, errUnknown, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errWrong, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errNoPass, apperrors.ErrUnauthorized)
}
