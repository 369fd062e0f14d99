package directory

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/db"
)

// PostgresStore implements OrgStore, CategoryStore and LocationStore
// over the shared connection pool.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperrors.ErrConflict
	}
	return err
}

func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const orgColumns = `org_id, name, COALESCE(mission, ''), COALESCE(description, ''),
	COALESCE(category_id, 0), COALESCE(location_id, 0), COALESCE(address, ''),
	COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''),
	COALESCE(donation_link, ''), COALESCE(logo_url, ''), COALESCE(operating_hours, ''),
	COALESCE(established_year, 0), status, COALESCE(admin_user_id, 0),
	COALESCE(approved_by, 0), approval_date, COALESCE(rejection_reason, ''),
	view_count, bookmark_count, created_at, updated_at`

func scanOrg(row interface{ Scan(...any) error }) (*Organization, error) {
	var o Organization
	var approval sql.NullTime
	err := row.Scan(
		&o.ID, &o.Name, &o.Mission, &o.Description,
		&o.CategoryID, &o.LocationID, &o.Address,
		&o.Phone, &o.Email, &o.Website,
		&o.DonationLink, &o.LogoURL, &o.OperatingHours,
		&o.EstablishedYear, &o.Status, &o.AdminUserID,
		&o.ApprovedBy, &approval, &o.RejectionReason,
		&o.ViewCount, &o.BookmarkCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approval.Valid {
		o.ApprovalDate = &approval.Time
	}
	return &o, nil
}

func (s *PostgresStore) Create(ctx context.Context, org *Organization) error {
	if org.Status == "" {
		org.Status = StatusPending
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO organizations (
			name, mission, description, category_id, location_id, address,
			phone, email, website, donation_link, logo_url, operating_hours,
			established_year, status, admin_user_id
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, 0), NULLIF($5, 0), NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''),
			NULLIF($13, 0), $14, NULLIF($15, 0)
		)
		RETURNING org_id, created_at, updated_at
	`,
		org.Name, org.Mission, org.Description, org.CategoryID, org.LocationID, org.Address,
		org.Phone, org.Email, org.Website, org.DonationLink, org.LogoURL, org.OperatingHours,
		org.EstablishedYear, org.Status, org.AdminUserID,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	return mapPQError(err)
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Organization, error) {
	org, err := scanOrg(s.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE org_id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return org, err
}

func (s *PostgresStore) Update(ctx context.Context, org *Organization) error {
	var approval sql.NullTime
	if org.ApprovalDate != nil {
		approval = sql.NullTime{Time: *org.ApprovalDate, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE organizations SET
			name = $2, mission = NULLIF($3, ''), description = NULLIF($4, ''),
			category_id = NULLIF($5, 0), location_id = NULLIF($6, 0),
			address = NULLIF($7, ''), phone = NULLIF($8, ''), email = NULLIF($9, ''),
			website = NULLIF($10, ''), donation_link = NULLIF($11, ''),
			logo_url = NULLIF($12, ''), operating_hours = NULLIF($13, ''),
			established_year = NULLIF($14, 0), status = $15,
			approved_by = NULLIF($16, 0), approval_date = $17,
			rejection_reason = NULLIF($18, ''), updated_at = NOW()
		WHERE org_id = $1
	`,
		org.ID, org.Name, org.Mission, org.Description,
		org.CategoryID, org.LocationID,
		org.Address, org.Phone, org.Email,
		org.Website, org.DonationLink,
		org.LogoURL, org.OperatingHours,
		org.EstablishedYear, org.Status,
		org.ApprovedBy, approval,
		org.RejectionReason,
	)
	if err != nil {
		return mapPQError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE org_id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) List(ctx context.Context, f OrgFilter) ([]Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations`
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.LocationID != 0 {
		args = append(args, f.LocationID)
		where = append(where, "location_id = $"+strconv.Itoa(len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *org)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateCategory(ctx context.Context, cat *Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description, icon_url, color_code, is_active, sort_order)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING category_id, created_at, updated_at
	`, cat.Name, cat.Description, cat.IconURL, cat.ColorCode, cat.IsActive, cat.SortOrder).
		Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
	return mapPQError(err)
}

func (s *PostgresStore) FindCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, `
		SELECT category_id, name, COALESCE(description, ''), COALESCE(icon_url, ''),
			COALESCE(color_code, ''), is_active, sort_order, created_at, updated_at
		FROM categories WHERE category_id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.IconURL, &c.ColorCode,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, cat *Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $2, description = NULLIF($3, ''), icon_url = NULLIF($4, ''),
			color_code = NULLIF($5, ''), is_active = $6, sort_order = $7,
			updated_at = NOW()
		WHERE category_id = $1
	`, cat.ID, cat.Name, cat.Description, cat.IconURL, cat.ColorCode, cat.IsActive, cat.SortOrder)
	if err != nil {
		return mapPQError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, name, COALESCE(description, ''), COALESCE(icon_url, ''),
			COALESCE(color_code, ''), is_active, sort_order, created_at, updated_at
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IconURL, &c.ColorCode,
			&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateLocation(ctx context.Context, loc *Location) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO locations (country, state_province, city, postal_code,
			latitude, longitude, timezone, is_active)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''),
			NULLIF($5, 0.0), NULLIF($6, 0.0), NULLIF($7, ''), $8)
		RETURNING location_id, created_at, updated_at
	`, loc.Country, loc.StateProvince, loc.City, loc.PostalCode,
		loc.Latitude, loc.Longitude, loc.Timezone, loc.IsActive).
		Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	return mapPQError(err)
}

func (s *PostgresStore) FindLocation(ctx context.Context, id int64) (*Location, error) {
	var l Location
	err := s.db.QueryRowContext(ctx, `
		SELECT location_id, country, COALESCE(state_province, ''), city,
			COALESCE(postal_code, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
			COALESCE(timezone, ''), is_active, created_at, updated_at
		FROM locations WHERE location_id = $1
	`, id).Scan(&l.ID, &l.Country, &l.StateProvince, &l.City,
		&l.PostalCode, &l.Latitude, &l.Longitude,
		&l.Timezone, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) UpdateLocation(ctx context.Context, loc *Location) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE locations SET
			country = $2, state_province = NULLIF($3, ''), city = $4,
			postal_code = NULLIF($5, ''), latitude = NULLIF($6, 0.0),
			longitude = NULLIF($7, 0.0), timezone = NULLIF($8, ''),
			is_active = $9, updated_at = NOW()
		WHERE location_id = $1
	`, loc.ID, loc.Country, loc.StateProvince, loc.City,
		loc.PostalCode, loc.Latitude, loc.Longitude, loc.Timezone, loc.IsActive)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) DeleteLocation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE location_id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, country, COALESCE(state_province, ''), city,
			COALESCE(postal_code, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
			COALESCE(timezone, ''), is_active, created_at, updated_at
		FROM locations
		ORDER BY country, city
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Country, &l.StateProvince, &l.City,
			&l.PostalCode, &l.Latitude, &l.Longitude,
			&l.Timezone, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
