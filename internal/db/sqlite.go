package db

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteConnection opens the database file in WAL mode, creating its
// directory if needed. A single connection serialises writers.
func NewSQLiteConnection(cfg *config.Config) (*sqlx.DB, error) {
	if dir := filepath.Dir(cfg.Storage.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sqlx.Open("sqlite3", cfg.SQLiteDSN())
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging sqlite")
	}
	return db, nil
}
