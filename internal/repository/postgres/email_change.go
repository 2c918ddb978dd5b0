package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilov/authcore/internal/model"
)

var _ model.PendingEmailChangeStore = (*EmailChangeRepository)(nil)

type EmailChangeRepository struct {
	db *Connection
}

func NewEmailChangeRepository(db *Connection) *EmailChangeRepository {
	return &EmailChangeRepository{
		db: db,
	}
}

// Replace keeps one outstanding change request per user.
func (r *EmailChangeRepository) Replace(ctx context.Context, change model.PendingEmailChange) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM pending_email_changes WHERE user_id = $1`, change.UserID); err != nil {
			return err
		}

		query := `INSERT INTO pending_email_changes (token, user_id, new_email, expires_at, created_at)
				  VALUES ($1, $2, $3, $4, $5)`
		_, err := tx.Exec(ctx, query,
			change.Token, change.UserID, change.NewEmail, change.ExpiresAt, change.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to replace pending email change: %w", err)
	}

	return nil
}

func (r *EmailChangeRepository) GetByToken(ctx context.Context, token string) (model.PendingEmailChange, error) {
	query := `SELECT token, user_id, new_email, expires_at, created_at
			  FROM pending_email_changes WHERE token = $1`

	var change model.PendingEmailChange
	err := r.db.QueryRow(ctx, query, token).Scan(
		&change.Token, &change.UserID, &change.NewEmail, &change.ExpiresAt, &change.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PendingEmailChange{}, model.ErrNotFound
		}
		return model.PendingEmailChange{}, fmt.Errorf("failed to get pending email change: %w", err)
	}

	return change, nil
}

func (r *EmailChangeRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM pending_email_changes WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete pending email change: %w", err)
	}
	return nil
}

func (r *EmailChangeRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM pending_email_changes WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete pending email changes by user: %w", err)
	}
	return nil
}

func (r *EmailChangeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM pending_email_changes WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pending email changes: %w", err)
	}
	return tag.RowsAffected(), nil
}
