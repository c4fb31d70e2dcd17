// Package filestore persists the roster as a single JSON document.
// Every mutation rewrites the whole file through a temp file and a rename,
// so readers never observe a partially written document.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/logger"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
)

type document struct {
	Students []model.StudentRow    `json:"students"`
	Users    []model.CredentialRow `json:"users"`
}

func (d document) clone() document {
	return document{
		Students: append([]model.StudentRow{}, d.Students...),
		Users:    append([]model.CredentialRow{}, d.Users...),
	}
}

type Store struct {
	path string
	mu   sync.RWMutex
	doc  document
	log  zerolog.Logger
}

// Open loads path, starting from an empty roster when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		doc:  document{Students: []model.StudentRow{}, Users: []model.CredentialRow{}},
		log:  logger.Get(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", path).Msg("Student file not found, starting empty")
			return s, nil
		}
		return nil, errors.Wrap(err, "reading student file")
	}
	if len(data) == 0 {
		return s, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding student file %s", path)
	}
	for _, row := range doc.Students {
		if _, err := row.Student(); err != nil {
			return nil, err
		}
	}
	for _, row := range doc.Users {
		if _, err := row.Credential(); err != nil {
			return nil, err
		}
	}
	if doc.Students != nil {
		s.doc.Students = doc.Students
	}
	if doc.Users != nil {
		s.doc.Users = doc.Users
	}
	return s, nil
}

func (s *Store) Students() student.Repository {
	return &studentRepository{store: s}
}

func (s *Store) Credentials() auth.Repository {
	return &credentialRepository{store: s}
}

func (s *Store) Close() error {
	return nil
}

// read runs fn against the current document under the read lock.
func (s *Store) read(fn func(doc *document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.doc)
}

// mutate applies fn to a copy of the document and persists it. The in-memory
// document only changes once the file has been replaced.
func (s *Store) mutate(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := writeFile(s.path, next); err != nil {
		return errors.Wrap(err, "writing student file")
	}
	s.doc = next
	return nil
}

func writeFile(path string, doc document) (err error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
