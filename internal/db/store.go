package db

import (
	"context"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
)

const mysqlDuplicateEntry = 1062

// Store is the relational backend. SQLite and MySQL share the same SQL.
type Store struct {
	db   *sqlx.DB
	mode model.GradeMode
}

// Open connects to the configured database and prepares the schema.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	if cfg.Storage.Backend == config.BackendMySQL {
		conn, err = NewMySQLConnection(cfg)
	} else {
		conn, err = NewSQLiteConnection(cfg)
	}
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, conn, cfg.Grading.Mode)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(ctx context.Context, conn *sqlx.DB, mode model.GradeMode) (*Store, error) {
	if err := EnsureSchema(ctx, conn, mode); err != nil {
		return nil, err
	}
	return &Store{db: conn, mode: mode}, nil
}

func (s *Store) Students() student.Repository {
	return NewStudentRepository(s.db, s.mode)
}

func (s *Store) Credentials() auth.Repository {
	return NewCredentialRepository(s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
