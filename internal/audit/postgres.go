package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/salemmohdmohd/directory-for-charities/internal/db"
)

type PostgresRecorder struct {
	db *db.DB
}

func NewPostgresRecorder(db *db.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, e *Entry) error {
	oldJSON, err := marshalValues(e.OldValues)
	if err != nil {
		return err
	}
	newJSON, err := marshalValues(e.NewValues)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO audit_log (user_id, action_type, target_type, target_id, old_values, new_values, ip_address, user_agent)
		VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
		RETURNING log_id, created_at
	`,
		e.UserID, e.ActionType, e.TargetType, e.TargetID,
		oldJSON, newJSON, e.IPAddress, e.UserAgent,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *PostgresRecorder) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT log_id, COALESCE(user_id, 0), action_type, target_type, target_id,
		       old_values, new_values, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
		FROM audit_log
		ORDER BY log_id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			oldJSON sql.NullString
			newJSON sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ActionType, &e.TargetType, &e.TargetID,
			&oldJSON, &newJSON, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if oldJSON.Valid {
			_ = json.Unmarshal([]byte(oldJSON.String), &e.OldValues)
		}
		if newJSON.Valid {
			_ = json.Unmarshal([]byte(newJSON.String), &e.NewValues)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalValues(values map[string]any) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return b, nil
}
