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

var _ model.PasswordResetStore = (*PasswordResetRepository)(nil)

type PasswordResetRepository struct {
	db *Connection
}

func NewPasswordResetRepository(db *Connection) *PasswordResetRepository {
	return &PasswordResetRepository{
		db: db,
	}
}

// Replace deletes every prior token for the user and inserts the new one in
// a single transaction, keeping at most one live token per user.
func (r *PasswordResetRepository) Replace(ctx context.Context, token model.PasswordResetToken) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, token.UserID); err != nil {
			return err
		}

		query := `INSERT INTO password_reset_tokens (token, user_id, expires_at, used, created_at)
				  VALUES ($1, $2, $3, FALSE, $4)`
		_, err := tx.Exec(ctx, query, token.Token, token.UserID, token.ExpiresAt, token.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to replace reset token: %w", err)
	}

	return nil
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (model.PasswordResetToken, error) {
	query := `SELECT token, user_id, expires_at, used, created_at
			  FROM password_reset_tokens WHERE token = $1`

	var reset model.PasswordResetToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&reset.Token, &reset.UserID, &reset.ExpiresAt, &reset.Used, &reset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PasswordResetToken{}, model.ErrNotFound
		}
		return model.PasswordResetToken{}, fmt.Errorf("failed to get reset token: %w", err)
	}

	return reset, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, token string) error {
	query := `UPDATE password_reset_tokens SET used = TRUE WHERE token = $1`

	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PasswordResetRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete reset tokens by user: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM password_reset_tokens WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
