package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/datalyst-app/authd/internal/common"
	"github.com/datalyst-app/authd/internal/dbx"
)

// pgUniqueViolation is the Postgres error code for a unique constraint
// violation (duplicate email).
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account, relying on the unique index on email to make
// the existence check race-free.
func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {

	query :=
		`INSERT INTO accounts (id, email, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.FirstName, account.LastName, account.PasswordHash).
		Scan(&account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAccountExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query :=
		`SELECT id, email, first_name, last_name, password_hash, recovery_code, created_at
		 FROM accounts
		 WHERE email = $1
		 `

	account := &Account{}
	var code sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&account.ID, &account.Email, &account.FirstName, &account.LastName,
			&account.PasswordHash, &code, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if code.Valid {
		account.RecoveryCode = &code.String
	}

	return account, nil
}

// SetRecoveryCode overwrites any pending code; only the most recent one
// stays valid.
func (r *PostgresRepository) SetRecoveryCode(ctx context.Context, email, code string) error {
	query :=
		`UPDATE accounts SET recovery_code = $2
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, email, code)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// ResetPassword re-verifies the code under a row lock before writing, so a
// code replaced by a concurrent Request-Recovery can no longer be confirmed.
func (r *PostgresRepository) ResetPassword(ctx context.Context, email, code, passwordHash string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		var id string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM accounts
			 WHERE email = $1 AND recovery_code = $2
			 FOR UPDATE
			 `, email, code).Scan(&id)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorInvalidRecoveryCode
			}
			return fmt.Errorf("db error: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE accounts SET password_hash = $2, recovery_code = NULL
			 WHERE id = $1
			 `, id, passwordHash)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return nil
	})
}
