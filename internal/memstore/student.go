package memstore

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CreateStudent(_ context.Context, s model.Student) (model.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; ok {
		return model.Student{}, apperrors.ErrDuplicateKey
	}
	repo.db.table[s.ID] = s.Clone()
	return s.Clone(), nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (model.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return s.Clone(), nil
	}
	return model.Student{}, apperrors.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter model.Filter, ordering model.Ordering) ([]model.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]model.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		if student.Matches(s, filter) {
			students = append(students, s.Clone())
		}
	}
	student.SortStudents(students, ordering)
	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s model.Student) (model.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	current, ok := repo.db.table[s.ID]
	if !ok {
		return model.Student{}, apperrors.ErrNotFound
	}
	current.Name = s.Name
	current.Email = s.Email
	current.Grades = s.Grades.Clone()
	repo.db.table[s.ID] = current
	return current.Clone(), nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
