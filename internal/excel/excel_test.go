package excel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{" ID ", "Name", "Email", "Grade", "notes"},
		{"S1", "Alice", "alice@example.com", 88.5, "ignored"},
		{"", "", "", "", ""},
		{"S2", "Bob"},
	})

	students, err := NewParser(model.GradeModeOverall).Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.Equal(t, "S1", students[0].ID)
	assert.Equal(t, 2, students[0].Row)
	assert.Equal(t, "Alice", students[0].Name)
	assert.Equal(t, "alice@example.com", students[0].Email)
	assert.Equal(t, "88.5", students[0].Grades[model.SubjectOverall])

	assert.Equal(t, "S2", students[1].ID)
	assert.Equal(t, 4, students[1].Row, "blank rows still count")
	assert.Empty(t, students[1].Grades)
}

func TestParseSubjectColumns(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"id", "name", "math_grade", "art_grade", "grade"},
		{"S1", "Alice", 91, "A", 50},
	})

	students, err := NewParser(model.GradeModeSubjects).Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, map[model.Subject]string{
		model.SubjectMath: "91",
		model.SubjectArt:  "A",
	}, students[0].Grades, "overall column is ignored in subjects mode")
}

func TestParseMissingColumn(t *testing.T) {
	data := workbook(t, [][]interface{}{
		{"id", "email"},
		{"S1", "a@example.com"},
	})
	_, err := NewParser(model.GradeModeOverall).Parse(context.Background(), data)

	var ve apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestParseGarbage(t *testing.T) {
	_, err := NewParser(model.GradeModeOverall).Parse(context.Background(), []byte("not a workbook"))
	assert.Error(t, err)
}

func TestValidator(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, nil), ErrNoRows)
	// repeated ids are left to the per-row import report
	assert.NoError(t, v.Validate(ctx, []model.NewStudent{{ID: "S1"}, {ID: "S2"}, {ID: " S1"}}))
}

func TestExportImportRoundTrip(t *testing.T) {
	added := time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)
	roster := []model.Student{
		{
			ID:        "S1",
			Name:      "Alice",
			Email:     "alice@example.com",
			PhotoRef:  "photos/alice.png",
			Grades:    model.Grades{model.SubjectMath: 92.5, model.SubjectHistory: 70},
			AddedDate: added,
		},
		{ID: "S2", Name: "Bob", Grades: model.Grades{}, AddedDate: added},
	}

	data, err := Export(roster, model.GradeModeSubjects)
	require.NoError(t, err)

	strategy := NewExcelStrategy(model.GradeModeSubjects)
	parsed, err := strategy.Parse(context.Background(), data)
	require.NoError(t, err)
	require.NoError(t, strategy.Validate(context.Background(), parsed))

	assert.Equal(t, []model.NewStudent{
		{
			ID:       "S1",
			Name:     "Alice",
			Email:    "alice@example.com",
			PhotoRef: "photos/alice.png",
			Grades: map[model.Subject]string{
				model.SubjectMath:    "92.5",
				model.SubjectHistory: "70",
			},
			Row: 2,
		},
		{ID: "S2", Name: "Bob", Grades: map[model.Subject]string{}, Row: 3},
	}, parsed)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "email", "photo_reference", "added_date", "grade"}, Header(model.GradeModeOverall))
	assert.Contains(t, Header(model.GradeModeSubjects), "science_grade")
}
