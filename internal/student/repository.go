package student

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/model"
)

// Repository persists student records. Implementations return
// apperrors.ErrDuplicateKey from CreateStudent when the id is taken and
// apperrors.ErrNotFound from the lookups and mutations when it is missing.
type Repository interface {
	CreateStudent(ctx context.Context, s model.Student) (model.Student, error)
	GetStudent(ctx context.Context, id string) (model.Student, error)
	// QueryStudents returns the students matching filter in the given order.
	QueryStudents(ctx context.Context, filter model.Filter, ordering model.Ordering) ([]model.Student, error)
	// UpdateStudent replaces the name, email and grades of an existing record.
	UpdateStudent(ctx context.Context, s model.Student) (model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}
