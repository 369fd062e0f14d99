package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/db"
)

const userColumns = `
	user_id, name, email, password_hash, role, is_verified,
	google_id, profile_picture, created_at, updated_at, last_login
`

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u         User
		hash      sql.NullString
		googleID  sql.NullString
		picture   sql.NullString
		lastLogin sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.Verified,
		&googleID, &picture, &u.CreatedAt, &u.UpdatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.PasswordHash = hash.String
	u.GoogleID = googleID.String
	u.ProfilePicture = picture.String
	u.LastLogin = lastLogin.Time
	return &u, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
	`, id)
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = $1
	`, NormalizeEmail(email))
	return scanUser(row)
}

func (s *PostgresStore) FindByExternalID(ctx context.Context, googleID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE google_id = $1
	`, googleID)
	return scanUser(row)
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	if u.Role == "" {
		u.Role = RoleVisitor
	}
	u.Email = NormalizeEmail(u.Email)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_verified, google_id, profile_picture, last_login)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING user_id, created_at, updated_at
	`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Verified,
		u.GoogleID, u.ProfilePicture, nullTime(u.LastLogin),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	return mapPQError(err)
}

func (s *PostgresStore) Update(ctx context.Context, u *User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2,
		    email = $3,
		    password_hash = NULLIF($4, ''),
		    role = $5,
		    is_verified = $6,
		    google_id = NULLIF($7, ''),
		    profile_picture = NULLIF($8, ''),
		    last_login = $9,
		    updated_at = NOW()
		WHERE user_id = $1
	`,
		u.ID, u.Name, NormalizeEmail(u.Email), u.PasswordHash, u.Role,
		u.Verified, u.GoogleID, u.ProfilePicture, nullTime(u.LastLogin),
	)
	if err != nil {
		return mapPQError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var (
			u         User
			hash      sql.NullString
			googleID  sql.NullString
			picture   sql.NullString
			lastLogin sql.NullTime
		)
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.Verified,
			&googleID, &picture, &u.CreatedAt, &u.UpdatedAt, &lastLogin,
		); err != nil {
			return nil, err
		}
		u.PasswordHash = hash.String
		u.GoogleID = googleID.String
		u.ProfilePicture = picture.String
		u.LastLogin = lastLogin.Time
		out = append(out, u)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// mapPQError translates a Postgres unique violation into the conflict
// failure the resolver and handlers branch on.
func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.ErrConflict
	}
	return err
}
