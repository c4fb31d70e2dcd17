package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

var requiredColumns = []string{"id", "name"}

// Parser reads student rows from the first worksheet of a workbook.
// Grades are returned as text; the student service parses them.
type Parser struct {
	mode model.GradeMode
}

func NewParser(mode model.GradeMode) *Parser {
	return &Parser{mode: mode}
}

func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.NewStudent, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidFileFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrInvalidFileFormat
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, apperrors.NewValidationError(col, nil, "missing required column")
		}
	}

	var students []model.NewStudent
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlankRow(row) {
			continue
		}
		ns := p.parseRow(row, columnMap)
		ns.Row = i + 2 // header is row 1
		students = append(students, ns)
	}
	return students, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int) model.NewStudent {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	ns := model.NewStudent{
		ID:       getValue("id"),
		Name:     getValue("name"),
		Email:    getValue("email"),
		PhotoRef: getValue("photo_reference"),
		Grades:   make(map[model.Subject]string),
	}
	for _, sub := range p.mode.Subjects() {
		if v := getValue(sub.Column()); v != "" {
			ns.Grades[sub] = v
		}
	}
	return ns
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
