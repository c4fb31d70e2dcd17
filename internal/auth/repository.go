package auth

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/model"
)

// Repository persists credentials. CreateCredential returns
// apperrors.ErrDuplicateUsername for a taken username; lookups and updates
// return apperrors.ErrUserNotFound for a missing one.
type Repository interface {
	CreateCredential(ctx context.Context, c model.Credential) (model.Credential, error)
	GetCredential(ctx context.Context, username string) (model.Credential, error)
	UpdatePassword(ctx context.Context, username string, hash []byte) error
	HasRole(ctx context.Context, role model.Role) (bool, error)
}
