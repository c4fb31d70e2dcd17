package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type studentRepository struct {
	db      *sqlx.DB
	mode    model.GradeMode
	columns []string
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB, mode model.GradeMode) student.Repository {
	return &studentRepository{db: db, mode: mode, columns: studentColumns(mode)}
}

func (r *studentRepository) selectQuery() string {
	return "SELECT " + strings.Join(r.columns, ", ") + " FROM students"
}

func (r *studentRepository) CreateStudent(ctx context.Context, s model.Student) (model.Student, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Student{}, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	exists, err := studentExists(ctx, tx, s.ID)
	if err != nil {
		return model.Student{}, err
	}
	if exists {
		return model.Student{}, apperrors.ErrDuplicateKey
	}

	placeholders := make([]string, len(r.columns))
	for i, col := range r.columns {
		placeholders[i] = ":" + col
	}
	query := "INSERT INTO students (" + strings.Join(r.columns, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ")"
	if _, err := tx.NamedExecContext(ctx, query, model.NewStudentRow(s)); err != nil {
		if isDuplicateKey(err) {
			return model.Student{}, apperrors.ErrDuplicateKey
		}
		return model.Student{}, errors.Wrap(err, "inserting student")
	}

	if err := tx.Commit(); err != nil {
		return model.Student{}, errors.Wrap(err, "committing student")
	}
	return s.Clone(), nil
}

func (r *studentRepository) GetStudent(ctx context.Context, id string) (model.Student, error) {
	return r.get(ctx, r.db, id)
}

func (r *studentRepository) get(ctx context.Context, q sqlx.QueryerContext, id string) (model.Student, error) {
	var row model.StudentRow
	err := sqlx.GetContext(ctx, q, &row, r.db.Rebind(r.selectQuery()+" WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Student{}, apperrors.ErrNotFound
		}
		return model.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.Student()
}

func (r *studentRepository) QueryStudents(ctx context.Context, filter model.Filter, ordering model.Ordering) ([]model.Student, error) {
	query := r.selectQuery()
	if clause := orderClause(ordering); clause != "" {
		query += " ORDER BY " + clause
	}

	var rows []model.StudentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}

	// SQLite's LOWER only folds ASCII, so the search term is matched in Go.
	students := make([]model.Student, 0, len(rows))
	for _, row := range rows {
		s, err := row.Student()
		if err != nil {
			return nil, err
		}
		if student.Matches(s, filter) {
			students = append(students, s)
		}
	}
	if ordering.Field == model.OrderByGrade {
		student.SortStudents(students, ordering)
	}
	return students, nil
}

func (r *studentRepository) UpdateStudent(ctx context.Context, s model.Student) (model.Student, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Student{}, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	exists, err := studentExists(ctx, tx, s.ID)
	if err != nil {
		return model.Student{}, err
	}
	if !exists {
		return model.Student{}, apperrors.ErrNotFound
	}

	sets := []string{"name = :name", "email = :email"}
	for _, sub := range r.mode.Subjects() {
		sets = append(sets, sub.Column()+" = :"+sub.Column())
	}
	query := "UPDATE students SET " + strings.Join(sets, ", ") + " WHERE id = :id"
	if _, err := tx.NamedExecContext(ctx, query, model.NewStudentRow(s)); err != nil {
		return model.Student{}, errors.Wrap(err, "updating student")
	}

	updated, err := r.get(ctx, tx, s.ID)
	if err != nil {
		return model.Student{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Student{}, errors.Wrap(err, "committing student")
	}
	return updated, nil
}

func (r *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM students WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func studentExists(ctx context.Context, tx *sqlx.Tx, id string) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind("SELECT COUNT(*) FROM students WHERE id = ?"), id); err != nil {
		return false, errors.Wrap(err, "checking student id")
	}
	return n > 0, nil
}

// orderClause returns the ORDER BY for fields the database can sort on.
// Grade ordering depends on averages and is done in Go.
func orderClause(ordering model.Ordering) string {
	dir := "ASC"
	if ordering.Descending {
		dir = "DESC"
	}
	switch ordering.Field {
	case model.OrderByID:
		return "id " + dir
	case model.OrderByAddedDate:
		return "added_date " + dir + ", id ASC"
	case model.OrderByGrade:
		return ""
	default:
		return "name " + dir + ", id ASC"
	}
}
