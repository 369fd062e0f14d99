package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

func identity(subject, email string, verified bool) *auth.Identity {
	return &auth.Identity{
		Provider:      "google",
		SubjectID:     subject,
		Email:         email,
		EmailVerified: verified,
		Name:          "Test Person",
		Picture:       "https://example.com/p.png",
	}
}

func TestResolveCreatesNewUser(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	user, isNew, err := r.Resolve(context.Background(), identity("g1", "a@x.com", true))
	require.NoError(t, err)

	assert.True(t, isNew)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "g1", user.GoogleID)
	assert.True(t, user.Verified)
	assert.Equal(t, users.RoleVisitor, user.Role)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.LastLogin.IsZero())
}

func TestResolveIsIdempotentForLinkedSubject(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	first, isNew, err := r.Resolve(context.Background(), identity("g1", "a@x.com", true))
	require.NoError(t, err)
	require.True(t, isNew)

	second, isNew, err := r.Resolve(context.Background(), identity("g1", "a@x.com", true))
	require.NoError(t, err)

	assert.False(t, isNew)
	assert.Equal(t, first.ID, second.ID)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResolveLinkedLookupWinsOverEmail(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	linked := &users.User{Name: "Linked", Email: "linked@x.com", GoogleID: "g1"}
	require.NoError(t, store.Create(context.Background(), linked))
	other := &users.User{Name: "Other", Email: "other@x.com"}
	require.NoError(t, store.Create(context.Background(), other))

	// Same subject, but the email now points at a different account.
	user, isNew, err := r.Resolve(context.Background(), identity("g1", "other@x.com", true))
	require.NoError(t, err)

	assert.False(t, isNew)
	assert.Equal(t, linked.ID, user.ID)

	reloaded, err := store.FindByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.GoogleID)
}

func TestResolveLinksByEmailAndPromotesVerified(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	existing := &users.User{Name: "Alice", Email: "A@X.com", PasswordHash: "hash", Verified: false}
	require.NoError(t, store.Create(context.Background(), existing))

	user, isNew, err := r.Resolve(context.Background(), identity("g2", "a@x.com", true))
	require.NoError(t, err)

	assert.False(t, isNew)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "g2", user.GoogleID)
	assert.True(t, user.Verified)
}

func TestResolveNeverDemotesVerified(t *testing.T) {
	tests := []struct {
		name          string
		prior         bool
		emailVerified bool
		want          bool
	}{
		{"false stays false", false, false, false},
		{"false promoted", false, true, true},
		{"true stays true despite unverified claim", true, false, true},
		{"true stays true", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := users.NewMemStore()
			r := NewStoreResolver(store)

			existing := &users.User{Name: "Alice", Email: "a@x.com", Verified: tt.prior}
			require.NoError(t, store.Create(context.Background(), existing))

			user, _, err := r.Resolve(context.Background(), identity("g2", "a@x.com", tt.emailVerified))
			require.NoError(t, err)
			assert.Equal(t, tt.want, user.Verified)
		})
	}
}

func TestResolveRejectsIncompleteIdentity(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	_, _, err := r.Resolve(context.Background(), identity("", "a@x.com", true))
	assert.ErrorIs(t, err, apperrors.ErrIncompleteIdentity)

	_, _, err = r.Resolve(context.Background(), identity("g1", "", true))
	assert.ErrorIs(t, err, apperrors.ErrIncompleteIdentity)

	_, _, err = r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrIncompleteIdentity)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "incomplete identities must not touch the store")
}

func TestResolveDefaultsNameToEmailLocalPart(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	id := identity("g1", "carol@x.com", false)
	id.Name = ""

	user, _, err := r.Resolve(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Name)
	assert.False(t, user.Verified)
}

func TestResolveNormalizesEmailCase(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	existing := &users.User{Name: "Dana", Email: "dana@x.com"}
	require.NoError(t, store.Create(context.Background(), existing))

	user, isNew, err := r.Resolve(context.Background(), identity("g9", "  DANA@X.COM ", false))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, existing.ID, user.ID)
}

func TestResolveSurfacesStoreConflict(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	// Simulate losing the create race: the email appears between the
	// resolver's lookup and its insert.
	racing := &conflictOnCreate{Store: store}
	rRace := NewStoreResolver(racing)

	_, _, err := rRace.Resolve(context.Background(), identity("g1", "a@x.com", true))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// The winner resolves normally afterwards.
	_, isNew, err := r.Resolve(context.Background(), identity("g1", "a@x.com", true))
	require.NoError(t, err)
	assert.True(t, isNew)
}

type conflictOnCreate struct {
	users.Store
}

func (c *conflictOnCreate) Create(ctx context.Context, u *users.User) error {
	return apperrors.ErrConflict
}

func TestLinkRefusesWhenSubjectBelongsElsewhere(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	owner := &users.User{Name: "Owner", Email: "owner@x.com", GoogleID: "g1"}
	require.NoError(t, store.Create(context.Background(), owner))
	victim := &users.User{Name: "Victim", Email: "victim@x.com", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), victim))

	_, err := r.Link(context.Background(), victim.ID, identity("g1", "owner@x.com", true))
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLinked)

	// Neither record mutated.
	reloadedOwner, _ := store.FindByID(context.Background(), owner.ID)
	reloadedVictim, _ := store.FindByID(context.Background(), victim.ID)
	assert.Equal(t, "g1", reloadedOwner.GoogleID)
	assert.Empty(t, reloadedVictim.GoogleID)
}

func TestLinkAttachesSubject(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	u := &users.User{Name: "Eve", Email: "eve@x.com", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), u))

	linked, err := r.Link(context.Background(), u.ID, identity("g7", "eve@x.com", true))
	require.NoError(t, err)
	assert.Equal(t, "g7", linked.GoogleID)
	assert.True(t, linked.Verified, "matching verified email promotes verification")
}

func TestLinkSameUserIsIdempotent(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	u := &users.User{Name: "Frank", Email: "frank@x.com", GoogleID: "g3", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), u))

	linked, err := r.Link(context.Background(), u.ID, identity("g3", "frank@x.com", false))
	require.NoError(t, err)
	assert.Equal(t, u.ID, linked.ID)
	assert.Equal(t, "g3", linked.GoogleID)
}

func TestLinkUnknownUser(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	_, err := r.Link(context.Background(), 42, identity("g1", "a@x.com", true))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnlinkRefusesWithoutPassword(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	u := &users.User{Name: "Grace", Email: "grace@x.com", GoogleID: "g5"}
	require.NoError(t, store.Create(context.Background(), u))

	err := r.Unlink(context.Background(), u.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoPassword)

	reloaded, _ := store.FindByID(context.Background(), u.ID)
	assert.Equal(t, "g5", reloaded.GoogleID, "refused unlink must not mutate")
}

func TestUnlinkRefusesWhenNotLinked(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	u := &users.User{Name: "Henry", Email: "henry@x.com", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), u))

	err := r.Unlink(context.Background(), u.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotLinked)
}

func TestUnlinkClearsSubject(t *testing.T) {
	store := users.NewMemStore()
	r := NewStoreResolver(store)

	u := &users.User{Name: "Iris", Email: "iris@x.com", GoogleID: "g6", PasswordHash: "hash"}
	require.NoError(t, store.Create(context.Background(), u))

	require.NoError(t, r.Unlink(context.Background(), u.ID))

	reloaded, _ := store.FindByID(context.Background(), u.ID)
	assert.Empty(t, reloaded.GoogleID)
}
