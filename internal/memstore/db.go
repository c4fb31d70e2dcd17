// Package memstore keeps students and credentials in process memory.
// Nothing survives Close; it backs tests and throwaway sessions.
package memstore

import (
	"sync"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
)

type (
	DB struct {
		students *studentTable
		users    *userTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]model.Student
	}

	userTable struct {
		sync.RWMutex
		table map[string]model.Credential
	}
)

func Open() *DB {
	return &DB{
		students: &studentTable{table: make(map[string]model.Student)},
		users:    &userTable{table: make(map[string]model.Credential)},
	}
}

func (db *DB) Students() student.Repository {
	return NewStudentRepository(db)
}

func (db *DB) Credentials() auth.Repository {
	return NewCredentialRepository(db)
}

func (db *DB) Close() error {
	return nil
}
