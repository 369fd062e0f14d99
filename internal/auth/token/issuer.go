package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

// Tokens is the payload returned to clients after authentication.
// Only an access token is minted; there is no refresh rotation.
type Tokens struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	UserRole    string `json:"user_role"`
}

// Claims is the verified content of a presented token.
type Claims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// Issuer mints and verifies HS256 identity tokens bound to a local
// user id.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a signed token with the user id as subject and a fixed
// expiry.
func (i *Issuer) Issue(u *users.User) (Tokens, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign token: %w", err)
	}

	return Tokens{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(i.ttl.Seconds()),
		UserID:      u.ID,
		UserName:    u.Name,
		UserEmail:   u.Email,
		UserRole:    u.Role,
	}, nil
}

// Verify checks signature and expiry and returns the token's claims.
// Revocation is the middleware's concern, not the issuer's.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	userID, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", apperrors.ErrUnauthorized)
	}

	var expiresAt time.Time
	if rc.ExpiresAt != nil {
		expiresAt = rc.ExpiresAt.Time
	}

	return &Claims{
		UserID:    userID,
		TokenID:   rc.ID,
		ExpiresAt: expiresAt,
	}, nil
}
