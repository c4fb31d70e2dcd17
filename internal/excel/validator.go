package excel

import (
	"context"
	"errors"

	"github.com/Rionpgup/student-tracker/internal/model"
)

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrNoRows            = errors.New("spreadsheet has no student rows")
)

// Validator checks a parsed sheet as a whole before any row is imported.
// Per-row checks, repeated ids included, happen in the student service.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(ctx context.Context, students []model.NewStudent) error {
	if len(students) == 0 {
		return ErrNoRows
	}
	return ctx.Err()
}
