package loginrecords

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.LoginRecord) error {
	query := `
		INSERT INTO login_records (user_id, attempted_at, remote_addr, success)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var userID sql.NullString
	if rec.UserID != nil {
		userID = sql.NullString{String: *rec.UserID, Valid: true}
	}

	if err := r.db.QueryRowContext(ctx, query, userID, rec.AttemptedAt, rec.RemoteAddr, rec.Success).Scan(&rec.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error) {
	query := `
		SELECT id, user_id, attempted_at, remote_addr, success
		FROM login_records
		WHERE user_id = $1
		ORDER BY attempted_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.LoginRecord, 0)
	for rows.Next() {
		var (
			rec models.LoginRecord
			uid sql.NullString
		)
		if err := rows.Scan(&rec.ID, &uid, &rec.AttemptedAt, &rec.RemoteAddr, &rec.Success); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if uid.Valid {
			rec.UserID = &uid.String
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM login_records
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
