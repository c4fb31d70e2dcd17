package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/logger"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/validate"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

// AdminUsername is the account seeded by EnsureAdmin.
const AdminUsername = "admin"

// bcrypt ignores input beyond 72 bytes; newer versions reject it outright.
const maxPasswordBytes = 72

type Service struct {
	repo          Repository
	minLength     int
	cost          int
	adminPassword string
	log           zerolog.Logger
	now           func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(cfg *config.Config, repo Repository) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:          repo,
		minLength:     cfg.Auth.MinPasswordLength,
		cost:          cost,
		adminPassword: cfg.Auth.AdminPassword,
		log:           logger.Get(),
		now:           time.Now,
	}
}

// Register creates a student-role account.
func (s *Service) Register(ctx context.Context, username, password string) (model.Credential, error) {
	return s.create(ctx, username, password, model.RoleStudent)
}

func (s *Service) create(ctx context.Context, username, password string, role model.Role) (model.Credential, error) {
	username = strings.TrimSpace(username)
	if err := validate.Var("username", username, "notblank"); err != nil {
		return model.Credential{}, err
	}

	_, err := s.repo.GetCredential(ctx, username)
	switch {
	case err == nil:
		return model.Credential{}, apperrors.ErrDuplicateUsername
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return model.Credential{}, err
	}

	if err := s.checkPassword(password); err != nil {
		return model.Credential{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to hash password: %w", err)
	}

	cred, err := s.repo.CreateCredential(ctx, model.Credential{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return model.Credential{}, err
	}

	s.log.Info().Str("username", username).Str("role", string(role)).Msg("User registered")
	return cred, nil
}

// Authenticate verifies the password and returns the stored credential.
// An unknown user and a wrong password produce the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (model.Credential, error) {
	username = strings.TrimSpace(username)
	cred, err := s.repo.GetCredential(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return model.Credential{}, err
		}
		// keep the timing of unknown users close to that of known ones
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.log.Debug().Str("username", username).Msg("Login failed")
		return model.Credential{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		s.log.Debug().Str("username", username).Msg("Login failed")
		return model.Credential{}, apperrors.ErrInvalidCredentials
	}
	return cred, nil
}

// EnsureAdmin seeds the admin account when no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	ok, err := s.repo.HasRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.create(ctx, AdminUsername, s.adminPassword, model.RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	s.log.Warn().Msg("Seeded default admin account, change its password")
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if _, err := s.repo.GetCredential(ctx, username); err != nil {
		return err
	}
	if err := s.checkPassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, username, hash); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("Password reset")
	return nil
}

func (s *Service) checkPassword(password string) error {
	if len([]rune(password)) < s.minLength {
		return apperrors.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters long", s.minLength),
			Err:     apperrors.ErrWeakPassword,
		}
	}
	if len(password) > maxPasswordBytes {
		return apperrors.NewValidationError("password", nil,
			fmt.Sprintf("must be at most %d bytes long", maxPasswordBytes))
	}
	return nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
