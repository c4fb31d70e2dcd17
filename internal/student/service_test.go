package student_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/filestore"
	"github.com/Rionpgup/student-tracker/internal/grade"
	"github.com/Rionpgup/student-tracker/internal/memstore"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

var fixedNow = time.Date(2024, time.May, 2, 14, 5, 9, 123456789, time.UTC)

func newService(t *testing.T, mode model.GradeMode) *student.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Grading.Mode = mode
	svc := student.NewService(cfg, memstore.Open().Students())
	return svc.WithClock(func() time.Time { return fixedNow })
}

func overall(v string) map[model.Subject]string {
	return map[model.Subject]string{model.SubjectOverall: v}
}

func TestCreateThenRead(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)

	created, err := svc.Create(ctx, model.NewStudent{
		ID:       " S1 ",
		Name:     "  Alice ",
		Grades:   overall("88.5"),
		Email:    "alice@example.com",
		PhotoRef: "photos/alice.png",
	})
	require.NoError(t, err)

	want := model.Student{
		ID:        "S1",
		Name:      "Alice",
		Grades:    model.Grades{model.SubjectOverall: 88.5},
		Email:     "alice@example.com",
		AddedDate: fixedNow.Truncate(time.Second),
		PhotoRef:  "photos/alice.png",
	}
	assert.Equal(t, want, created)

	got, err := svc.Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mode    model.GradeMode
		input   model.NewStudent
		field   string
		isGrade bool
	}{
		{name: "blank id", input: model.NewStudent{ID: "  ", Name: "Alice"}, field: "id"},
		{name: "blank name", input: model.NewStudent{ID: "S1", Name: ""}, field: "name"},
		{name: "non numeric grade", input: model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("abc")}, field: "grade", isGrade: true},
		{
			name:  "subject grade in overall mode",
			input: model.NewStudent{ID: "S1", Name: "Alice", Grades: map[model.Subject]string{model.SubjectMath: "90"}},
			field: "math_grade",
		},
		{
			name:  "overall grade in subjects mode",
			mode:  model.GradeModeSubjects,
			input: model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("90")},
			field: "grade",
		},
		{
			name:    "bad subject grade",
			mode:    model.GradeModeSubjects,
			input:   model.NewStudent{ID: "S1", Name: "Alice", Grades: map[model.Subject]string{model.SubjectArt: "A+"}},
			field:   "art_grade",
			isGrade: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.mode
			if mode == "" {
				mode = model.GradeModeOverall
			}
			svc := newService(t, mode)

			_, err := svc.Create(context.Background(), tt.input)
			require.Error(t, err)

			var ve apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.isGrade, errors.Is(err, apperrors.ErrInvalidGrade))

			list, err := svc.List(context.Background(), model.Ordering{})
			require.NoError(t, err)
			assert.Empty(t, list, "failed create must not store anything")
		})
	}
}

func TestCreateDuplicateKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)

	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("70")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Mallory", Grades: overall("10")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	got, err := svc.Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 70.0, got.Grades[model.SubjectOverall])
}

func TestReadMissing(t *testing.T) {
	svc := newService(t, model.GradeModeOverall)
	for _, id := range []string{"S9", "", "   "} {
		_, err := svc.Read(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}
}

func TestUpdateSingleGradeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("80"), Email: "a@example.com"})
	require.NoError(t, err)

	res, err := svc.Update(ctx, "S1", model.UpdateStudent{Grades: overall("90")})
	require.NoError(t, err)

	assert.Equal(t, "Alice", res.Student.Name)
	assert.Equal(t, "a@example.com", res.Student.Email)
	assert.Equal(t, 90.0, res.Student.Grades[model.SubjectOverall])
	assert.Equal(t, fixedNow.Truncate(time.Second), res.Student.AddedDate)

	require.Len(t, res.Changes, 1)
	change := res.Changes[0]
	assert.Equal(t, model.SubjectOverall, change.Subject)
	require.NotNil(t, change.Old)
	assert.Equal(t, 80.0, *change.Old)
	assert.Equal(t, 90.0, change.New)
	assert.Equal(t, grade.Upgrade, change.Delta.Kind)
	assert.Equal(t, "UPGRADE +10.0 (+12.5%)", change.Delta.String())

	got, err := svc.Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, res.Student, got)
}

func TestUpdateNameAndEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("80")})
	require.NoError(t, err)

	res, err := svc.Update(ctx, "S1", model.UpdateStudent{Name: "Alicia", Email: "alicia@example.com", Grades: overall(" ")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", res.Student.Name)
	assert.Equal(t, "alicia@example.com", res.Student.Email)
	assert.Equal(t, 80.0, res.Student.Grades[model.SubjectOverall])
	assert.Empty(t, res.Changes)
}

func TestUpdateFirstGrade(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeSubjects)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: map[model.Subject]string{model.SubjectMath: "60"}})
	require.NoError(t, err)

	res, err := svc.Update(ctx, "S1", model.UpdateStudent{Grades: map[model.Subject]string{
		model.SubjectMath:    "54",
		model.SubjectHistory: "75",
	}})
	require.NoError(t, err)

	require.Len(t, res.Changes, 2)
	// changes follow subject display order
	assert.Equal(t, model.SubjectHistory, res.Changes[0].Subject)
	assert.Nil(t, res.Changes[0].Old)
	assert.Equal(t, "First grade set: 75.0", res.Changes[0].Delta.String())
	assert.Equal(t, model.SubjectMath, res.Changes[1].Subject)
	assert.Equal(t, "DOWNGRADE -6.0 (-10.0%)", res.Changes[1].Delta.String())
}

func TestUpdateInvalidGradeChangesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("80")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "S1", model.UpdateStudent{Name: "Eve", Grades: overall("eighty")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGrade)

	got, err := svc.Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 80.0, got.Grades[model.SubjectOverall])
}

func TestUpdateMissing(t *testing.T) {
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Update(context.Background(), "S9", model.UpdateStudent{Name: "Nobody"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "S1"))
	_, err = svc.Read(ctx, "S1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "S1"), apperrors.ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	for _, ns := range []model.NewStudent{{ID: "S2", Name: "Bob"}, {ID: "S1", Name: "Alice"}} {
		_, err := svc.Create(ctx, ns)
		require.NoError(t, err)
	}

	tests := []struct {
		term string
		want []string
	}{
		{term: "al", want: []string{"S1"}},
		{term: "AL", want: []string{"S1"}},
		{term: "s", want: []string{"S1", "S2"}},
		{term: "", want: []string{"S1", "S2"}},
		{term: "zed", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.term)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListEmptyAndIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)

	empty, err := svc.List(ctx, model.Ordering{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, ns := range []model.NewStudent{
		{ID: "S3", Name: "Cleo", Grades: overall("60")},
		{ID: "S1", Name: "Alice", Grades: overall("90")},
		{ID: "S2", Name: "Bob"},
	} {
		_, err := svc.Create(ctx, ns)
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, model.Ordering{Field: model.OrderByGrade, Descending: true})
	require.NoError(t, err)
	second, err := svc.List(ctx, model.Ordering{Field: model.OrderByGrade, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "S1", first[0].ID)
	assert.Equal(t, "S2", first[2].ID, "students without grades sort last")
}

func TestListRejectsUnknownOrdering(t *testing.T) {
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.List(context.Background(), model.Ordering{Field: "shoe_size"})
	var ve apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "order_by", ve.Field)
}

func TestImportReportsEachRow(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)
	_, err := svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice"})
	require.NoError(t, err)

	report, err := svc.Import(ctx, []model.NewStudent{
		{ID: "S2", Name: "Bob", Grades: overall("75")},
		{ID: "S1", Name: "Alice again"},
		{ID: "S3", Name: "Cleo", Grades: overall("n/a")},
		{ID: "S4", Name: ""},
		{ID: "S5", Name: "Dan"},
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	outcomes := make([]student.ImportOutcome, 0, len(report.Results))
	for _, r := range report.Results {
		outcomes = append(outcomes, r.Outcome)
	}
	assert.Equal(t, []student.ImportOutcome{
		student.ImportCreated,
		student.ImportDuplicate,
		student.ImportInvalid,
		student.ImportInvalid,
		student.ImportCreated,
	}, outcomes)
	assert.Equal(t, 2, report.Count(student.ImportCreated))
	assert.Equal(t, 3, report.Results[2].Row)

	all, err := svc.List(ctx, model.Ordering{Field: model.OrderByID})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportRepeatedIDInBatch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, model.GradeModeOverall)

	report, err := svc.Import(ctx, []model.NewStudent{
		{ID: "S1", Name: "Alice", Row: 2},
		{ID: "S2", Name: "Bob", Row: 4},
		{ID: "S1", Name: "Alice twin", Row: 7},
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, student.ImportCreated, report.Results[1].Outcome)
	assert.Equal(t, 4, report.Results[1].Row)
	assert.Equal(t, student.ImportDuplicate, report.Results[2].Outcome)
	assert.Equal(t, 7, report.Results[2].Row)
	assert.ErrorIs(t, report.Results[2].Err, apperrors.ErrDuplicateKey)

	got, err := svc.Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestServiceOverFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "students.json")
	store, err := filestore.Open(path)
	require.NoError(t, err)

	cfg := config.Default()
	svc := student.NewService(cfg, store.Students())
	_, err = svc.Create(ctx, model.NewStudent{ID: "S1", Name: "Alice", Grades: overall("80")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "S1", model.UpdateStudent{Grades: overall("85")})
	require.NoError(t, err)

	reopened, err := filestore.Open(path)
	require.NoError(t, err)
	got, err := student.NewService(cfg, reopened.Students()).Read(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 85.0, got.Grades[model.SubjectOverall])
}
