package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ddanilov/authcore/internal/model"
)

var _ model.PendingRegistrationStore = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	db *Connection
}

func NewRegistrationRepository(db *Connection) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

// Replace deletes any pending row for the email and inserts the new one in
// a single transaction, so a re-register can never leave two live tokens.
func (r *RegistrationRepository) Replace(ctx context.Context, pending model.PendingRegistration) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM pending_registrations WHERE email = $1`, pending.Email); err != nil {
			return err
		}

		query := `INSERT INTO pending_registrations (email, password_hash, token, expires_at, created_at)
				  VALUES ($1, $2, $3, $4, $5)`
		_, err := tx.Exec(ctx, query,
			pending.Email, pending.PasswordHash, pending.Token, pending.ExpiresAt, pending.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to replace pending registration: %w", err)
	}

	return nil
}

func (r *RegistrationRepository) GetByToken(ctx context.Context, token string) (model.PendingRegistration, error) {
	query := `SELECT email, password_hash, token, expires_at, created_at
			  FROM pending_registrations WHERE token = $1`
	return r.getOne(ctx, query, token)
}

func (r *RegistrationRepository) GetByEmail(ctx context.Context, email string) (model.PendingRegistration, error) {
	query := `SELECT email, password_hash, token, expires_at, created_at
			  FROM pending_registrations WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *RegistrationRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM pending_registrations WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete pending registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM pending_registrations WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pending registrations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RegistrationRepository) getOne(ctx context.Context, query string, arg any) (model.PendingRegistration, error) {
	var pending model.PendingRegistration
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&pending.Email, &pending.PasswordHash, &pending.Token, &pending.ExpiresAt, &pending.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PendingRegistration{}, model.ErrNotFound
		}
		return model.PendingRegistration{}, fmt.Errorf("failed to get pending registration: %w", err)
	}

	return pending, nil
}
