package filestore

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type credentialRepository struct {
	store *Store
}

var _ auth.Repository = (*credentialRepository)(nil)

func findUser(doc *document, username string) int {
	for i, row := range doc.Users {
		if row.Username == username {
			return i
		}
	}
	return -1
}

func (repo *credentialRepository) CreateCredential(_ context.Context, c model.Credential) (model.Credential, error) {
	err := repo.store.mutate(func(doc *document) error {
		if findUser(doc, c.Username) >= 0 {
			return apperrors.ErrDuplicateUsername
		}
		doc.Users = append(doc.Users, model.NewCredentialRow(c))
		return nil
	})
	if err != nil {
		return model.Credential{}, err
	}
	return c, nil
}

func (repo *credentialRepository) GetCredential(_ context.Context, username string) (model.Credential, error) {
	var found model.Credential
	err := repo.store.read(func(doc *document) error {
		i := findUser(doc, username)
		if i < 0 {
			return apperrors.ErrUserNotFound
		}
		var err error
		found, err = doc.Users[i].Credential()
		return err
	})
	return found, err
}

func (repo *credentialRepository) UpdatePassword(_ context.Context, username string, hash []byte) error {
	return repo.store.mutate(func(doc *document) error {
		i := findUser(doc, username)
		if i < 0 {
			return apperrors.ErrUserNotFound
		}
		doc.Users[i].PasswordHash = string(hash)
		return nil
	})
}

func (repo *credentialRepository) HasRole(_ context.Context, role model.Role) (bool, error) {
	var ok bool
	err := repo.store.read(func(doc *document) error {
		for _, row := range doc.Users {
			if row.Role == string(role) {
				ok = true
				return nil
			}
		}
		return nil
	})
	return ok, err
}
