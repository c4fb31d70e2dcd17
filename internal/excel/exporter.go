package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Rionpgup/student-tracker/internal/model"
)

const sheetName = "Students"

// Header returns the column names written by Export for mode.
func Header(mode model.GradeMode) []string {
	cols := []string{"id", "name", "email", "photo_reference", "added_date"}
	for _, sub := range mode.Subjects() {
		cols = append(cols, sub.Column())
	}
	return cols
}

// Export writes students to a single-sheet workbook that Parser can read back.
func Export(students []model.Student, mode model.GradeMode) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := Header(mode)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range students {
		row := []interface{}{s.ID, s.Name, s.Email, s.PhotoRef, s.AddedDate.UTC().Format(model.AddedDateLayout)}
		for _, sub := range mode.Subjects() {
			if v, ok := s.Grades.Get(sub); ok {
				row = append(row, v)
			} else {
				row = append(row, "")
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
