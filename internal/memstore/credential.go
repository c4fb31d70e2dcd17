package memstore

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type credentialRepository struct {
	db *userTable
}

var _ auth.Repository = (*credentialRepository)(nil) // interface compliance check

func NewCredentialRepository(db *DB) auth.Repository {
	return &credentialRepository{db: db.users}
}

func (repo *credentialRepository) CreateCredential(_ context.Context, c model.Credential) (model.Credential, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.Username]; ok {
		return model.Credential{}, apperrors.ErrDuplicateUsername
	}
	c.PasswordHash = append([]byte(nil), c.PasswordHash...)
	repo.db.table[c.Username] = c
	return c, nil
}

func (repo *credentialRepository) GetCredential(_ context.Context, username string) (model.Credential, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[username]; ok {
		return c, nil
	}
	return model.Credential{}, apperrors.ErrUserNotFound
}

func (repo *credentialRepository) UpdatePassword(_ context.Context, username string, hash []byte) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[username]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	c.PasswordHash = append([]byte(nil), hash...)
	repo.db.table[username] = c
	return nil
}

func (repo *credentialRepository) HasRole(_ context.Context, role model.Role) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.table {
		if c.Role == role {
			return true, nil
		}
	}
	return false, nil
}
