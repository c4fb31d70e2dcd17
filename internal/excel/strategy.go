package excel

import (
	"context"

	"github.com/Rionpgup/student-tracker/internal/model"
)

type ParsingStrategy interface {
	Parse(ctx context.Context, data []byte) ([]model.NewStudent, error)
	Validate(ctx context.Context, students []model.NewStudent) error
}

type ExcelStrategy struct {
	parser    *Parser
	validator *Validator
}

func NewExcelStrategy(mode model.GradeMode) ParsingStrategy {
	return &ExcelStrategy{
		parser:    NewParser(mode),
		validator: NewValidator(),
	}
}

func (s *ExcelStrategy) Parse(ctx context.Context, data []byte) ([]model.NewStudent, error) {
	return s.parser.Parse(ctx, data)
}

func (s *ExcelStrategy) Validate(ctx context.Context, students []model.NewStudent) error {
	return s.validator.Validate(ctx, students)
}
