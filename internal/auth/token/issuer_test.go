package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 24*time.Hour)
	u := &users.User{ID: 7, Name: "Alice", Email: "alice@x.com", Role: users.RoleVisitor}

	tokens, err := issuer.Issue(u)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(86400), tokens.ExpiresIn)
	assert.Equal(t, int64(7), tokens.UserID)
	assert.Equal(t, "alice@x.com", tokens.UserEmail)

	claims, err := issuer.Verify(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tokens, err := NewIssuer("secret-a", time.Hour).Issue(&users.User{ID: 1})
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Verify(tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tokens, err := issuer.Issue(&users.User{ID: 1})
	require.NoError(t, err)

	_, err = issuer.Verify(tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("test-secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
