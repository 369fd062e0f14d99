package ads

import (
	"context"
	"database/sql"
	"errors"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/db"
)

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const adColumns = `ad_id, COALESCE(org_id, 0), title, COALESCE(description, ''),
	COALESCE(image_url, ''), COALESCE(target_url, ''), ad_type, placement,
	start_date, end_date, COALESCE(budget, 0), clicks_count, impressions_count,
	is_active, created_at, updated_at`

func scanAd(row interface{ Scan(...any) error }) (*Advertisement, error) {
	var a Advertisement
	err := row.Scan(
		&a.ID, &a.OrgID, &a.Title, &a.Description,
		&a.ImageURL, &a.TargetURL, &a.AdType, &a.Placement,
		&a.StartDate, &a.EndDate, &a.Budget, &a.Clicks, &a.Impressions,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, ad *Advertisement) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO advertisements (
			org_id, title, description, image_url, target_url,
			ad_type, placement, start_date, end_date, budget, is_active
		) VALUES (
			NULLIF($1, 0), $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			$6, $7, $8, $9, NULLIF($10, 0.0), $11
		)
		RETURNING ad_id, created_at, updated_at
	`,
		ad.OrgID, ad.Title, ad.Description, ad.ImageURL, ad.TargetURL,
		ad.AdType, ad.Placement, ad.StartDate, ad.EndDate, ad.Budget, ad.IsActive,
	).Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt)
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Advertisement, error) {
	ad, err := scanAd(s.db.QueryRowContext(ctx,
		`SELECT `+adColumns+` FROM advertisements WHERE ad_id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return ad, err
}

func (s *PostgresStore) Update(ctx context.Context, ad *Advertisement) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE advertisements SET
			org_id = NULLIF($2, 0), title = $3, description = NULLIF($4, ''),
			image_url = NULLIF($5, ''), target_url = NULLIF($6, ''),
			ad_type = $7, placement = $8, start_date = $9, end_date = $10,
			budget = NULLIF($11, 0.0), is_active = $12, updated_at = NOW()
		WHERE ad_id = $1
	`,
		ad.ID, ad.OrgID, ad.Title, ad.Description,
		ad.ImageURL, ad.TargetURL,
		ad.AdType, ad.Placement, ad.StartDate, ad.EndDate,
		ad.Budget, ad.IsActive,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM advertisements WHERE ad_id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (s *PostgresStore) List(ctx context.Context, activeOnly bool) ([]Advertisement, error) {
	query := `SELECT ` + adColumns + ` FROM advertisements`
	if activeOnly {
		query += ` WHERE is_active AND start_date <= NOW() AND end_date >= NOW()`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Advertisement
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ad)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecordClick(ctx context.Context, id int64) error {
	return s.bump(ctx, id, "clicks_count")
}

func (s *PostgresStore) RecordImpression(ctx context.Context, id int64) error {
	return s.bump(ctx, id, "impressions_count")
}

func (s *PostgresStore) bump(ctx context.Context, id int64, column string) error {
	// column is one of two literals above, never user input.
	res, err := s.db.ExecContext(ctx,
		`UPDATE advertisements SET `+column+` = `+column+` + 1 WHERE ad_id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
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
