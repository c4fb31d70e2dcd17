package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/config"

	_ "github.com/go-sql-driver/mysql"
)

func NewMySQLConnection(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, errors.Wrap(err, "opening mysql")
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging mysql")
	}

	return db, nil
}
