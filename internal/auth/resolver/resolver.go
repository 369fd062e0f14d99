package resolver

import (
	"context"

	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

// Resolver maps an external identity to a local user account. It is
// the ONLY place where identity-to-account decision logic lives.
type Resolver interface {
	// Resolve reuses, links, or creates an account for the identity.
	// isNew is true only when a new account was created.
	Resolve(ctx context.Context, identity *auth.Identity) (user *users.User, isNew bool, err error)

	// Link attaches the identity to an already-authenticated user.
	// Refuses when the identity belongs to a different account.
	Link(ctx context.Context, userID int64, identity *auth.Identity) (*users.User, error)

	// Unlink detaches the external account. Refuses when the user has
	// no password, since an account must keep one login path.
	Unlink(ctx context.Context, userID int64) error
}
