package filestore

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type studentRepository struct {
	store *Store
}

var _ student.Repository = (*studentRepository)(nil)

func findStudent(doc *document, id string) int {
	for i, row := range doc.Students {
		if row.ID == id {
			return i
		}
	}
	return -1
}

func (repo *studentRepository) CreateStudent(_ context.Context, s model.Student) (model.Student, error) {
	err := repo.store.mutate(func(doc *document) error {
		if findStudent(doc, s.ID) >= 0 {
			return apperrors.ErrDuplicateKey
		}
		doc.Students = append(doc.Students, model.NewStudentRow(s))
		return nil
	})
	if err != nil {
		return model.Student{}, err
	}
	return s.Clone(), nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (model.Student, error) {
	var found model.Student
	err := repo.store.read(func(doc *document) error {
		i := findStudent(doc, id)
		if i < 0 {
			return apperrors.ErrNotFound
		}
		var err error
		found, err = doc.Students[i].Student()
		return err
	})
	return found, err
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter model.Filter, ordering model.Ordering) ([]model.Student, error) {
	var students []model.Student
	err := repo.store.read(func(doc *document) error {
		students = make([]model.Student, 0, len(doc.Students))
		for _, row := range doc.Students {
			s, err := row.Student()
			if err != nil {
				return err
			}
			if student.Matches(s, filter) {
				students = append(students, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	student.SortStudents(students, ordering)
	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s model.Student) (model.Student, error) {
	var updated model.Student
	err := repo.store.mutate(func(doc *document) error {
		i := findStudent(doc, s.ID)
		if i < 0 {
			return apperrors.ErrNotFound
		}
		current, err := doc.Students[i].Student()
		if err != nil {
			return err
		}
		current.Name = s.Name
		current.Email = s.Email
		current.Grades = s.Grades.Clone()
		doc.Students[i] = model.NewStudentRow(current)
		updated = current
		return nil
	})
	if err != nil {
		return model.Student{}, err
	}
	return updated, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	return repo.store.mutate(func(doc *document) error {
		i := findStudent(doc, id)
		if i < 0 {
			return apperrors.ErrNotFound
		}
		doc.Students = append(doc.Students[:i], doc.Students[i+1:]...)
		return nil
	})
}
