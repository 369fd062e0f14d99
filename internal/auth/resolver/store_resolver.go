package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

// StoreResolver resolves identities against the user store. The
// decision order is load-bearing: linked lookup, then email match,
// then create. First match wins.
type StoreResolver struct {
	store users.Store
	now   func() time.Time
}

func NewStoreResolver(store users.Store) *StoreResolver {
	return &StoreResolver{store: store, now: time.Now}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*users.User, bool, error) {

	if err := validate(identity); err != nil {
		return nil, false, err
	}
	email := users.NormalizeEmail(identity.Email)

	// 1. Existing link: reuse the account.
	user, err := r.store.FindByExternalID(ctx, identity.SubjectID)
	if err == nil {
		if identity.Picture != "" {
			user.ProfilePicture = identity.Picture
		}
		user.LastLogin = r.now()
		if err := r.store.Update(ctx, user); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	// 2. Email match, no link: attach the identity. Verification is
	// promoted only on the provider's say-so, never demoted.
	user, err = r.store.FindByEmail(ctx, email)
	if err == nil {
		user.GoogleID = identity.SubjectID
		if identity.Picture != "" {
			user.ProfilePicture = identity.Picture
		}
		if identity.EmailVerified {
			user.Verified = true
		}
		user.LastLogin = r.now()
		if err := r.store.Update(ctx, user); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	// 3. No match: create. A concurrent create for the same email
	// loses on the store's uniqueness constraint and surfaces as a
	// conflict; it is not retried here.
	name := identity.Name
	if name == "" {
		name = emailLocalPart(email)
	}
	user = &users.User{
		Name:           name,
		Email:          email,
		Role:           users.RoleVisitor,
		Verified:       identity.EmailVerified,
		GoogleID:       identity.SubjectID,
		ProfilePicture: identity.Picture,
		LastLogin:      r.now(),
	}
	if err := r.store.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (r *StoreResolver) Link(
	ctx context.Context,
	userID int64,
	identity *auth.Identity,
) (*users.User, error) {

	if err := validate(identity); err != nil {
		return nil, err
	}

	existing, err := r.store.FindByExternalID(ctx, identity.SubjectID)
	if err == nil && existing.ID != userID {
		// No silent reassignment between accounts.
		return nil, apperrors.ErrAlreadyLinked
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user, err := r.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.GoogleID = identity.SubjectID
	if identity.Picture != "" {
		user.ProfilePicture = identity.Picture
	}
	if identity.EmailVerified && users.NormalizeEmail(identity.Email) == users.NormalizeEmail(user.Email) {
		user.Verified = true
	}
	if err := r.store.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *StoreResolver) Unlink(ctx context.Context, userID int64) error {
	user, err := r.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.GoogleID == "" {
		return apperrors.ErrNotLinked
	}
	if user.PasswordHash == "" {
		return apperrors.ErrNoPassword
	}
	user.GoogleID = ""
	return r.store.Update(ctx, user)
}

func validate(identity *auth.Identity) error {
	if identity == nil || identity.SubjectID == "" || identity.Email == "" {
		return apperrors.ErrIncompleteIdentity
	}
	return nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
