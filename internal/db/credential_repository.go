package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type credentialRepository struct {
	db *sqlx.DB
}

var _ auth.Repository = (*credentialRepository)(nil)

func NewCredentialRepository(db *sqlx.DB) auth.Repository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) CreateCredential(ctx context.Context, c model.Credential) (model.Credential, error) {
	query := `INSERT INTO users (username, password_hash, role, created_at)
			  VALUES (:username, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, model.NewCredentialRow(c)); err != nil {
		if isDuplicateKey(err) {
			return model.Credential{}, apperrors.ErrDuplicateUsername
		}
		return model.Credential{}, errors.Wrap(err, "inserting user")
	}
	return c, nil
}

func (r *credentialRepository) GetCredential(ctx context.Context, username string) (model.Credential, error) {
	query := `SELECT username, password_hash, role, created_at FROM users WHERE username = ?`

	var row model.CredentialRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Credential{}, apperrors.ErrUserNotFound
		}
		return model.Credential{}, errors.Wrap(err, "selecting user")
	}
	return row.Credential()
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, username string, hash []byte) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username); err != nil {
		return errors.Wrap(err, "checking user")
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET password_hash = ? WHERE username = ?`),
		string(hash), username); err != nil {
		return errors.Wrap(err, "updating password")
	}
	return errors.Wrap(tx.Commit(), "committing password")
}

func (r *credentialRepository) HasRole(ctx context.Context, role model.Role) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), string(role)); err != nil {
		return false, errors.Wrap(err, "counting users by role")
	}
	return n > 0, nil
}
