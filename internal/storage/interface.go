package storage

import (
	"context"
	"fmt"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/db"
	"github.com/Rionpgup/student-tracker/internal/filestore"
	"github.com/Rionpgup/student-tracker/internal/logger"
	"github.com/Rionpgup/student-tracker/internal/memstore"
	"github.com/Rionpgup/student-tracker/internal/student"
)

// Backend is one persistence implementation of the student and credential repositories.
type Backend interface {
	Students() student.Repository
	Credentials() auth.Repository
	Close() error
}

var (
	_ Backend = (*db.Store)(nil)
	_ Backend = (*filestore.Store)(nil)
	_ Backend = (*memstore.DB)(nil)
)

// Open returns the backend selected by storage.backend.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	log := logger.Get()

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		log.Debug().Str("path", cfg.Storage.SQLite.Path).Msg("Opening sqlite backend")
		return openSQL(ctx, cfg)
	case config.BackendMySQL:
		log.Debug().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("Opening mysql backend")
		return openSQL(ctx, cfg)
	case config.BackendFile:
		log.Debug().Str("path", cfg.Storage.File.Path).Msg("Opening file backend")
		store, err := filestore.Open(cfg.Storage.File.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		log.Debug().Msg("Opening memory backend")
		return memstore.Open(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openSQL(ctx context.Context, cfg *config.Config) (Backend, error) {
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}
