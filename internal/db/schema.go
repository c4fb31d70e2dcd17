package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Rionpgup/student-tracker/internal/model"
)

const usersTable = `CREATE TABLE IF NOT EXISTS users (
	username      VARCHAR(191) PRIMARY KEY,
	password_hash TEXT NOT NULL,
	role          VARCHAR(16) NOT NULL,
	created_at    VARCHAR(32) NOT NULL
)`

func studentsTable(mode model.GradeMode) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS students (\n")
	b.WriteString("\tid              VARCHAR(191) PRIMARY KEY,\n")
	b.WriteString("\tname            TEXT NOT NULL,\n")
	for _, sub := range mode.Subjects() {
		fmt.Fprintf(&b, "\t%-15s REAL NULL,\n", sub.Column())
	}
	b.WriteString("\temail           TEXT NULL,\n")
	b.WriteString("\tadded_date      VARCHAR(32) NOT NULL,\n")
	b.WriteString("\tphoto_reference TEXT NULL\n")
	b.WriteString(")")
	return b.String()
}

// studentColumns lists the students columns for mode in table order.
func studentColumns(mode model.GradeMode) []string {
	cols := []string{"id", "name"}
	for _, sub := range mode.Subjects() {
		cols = append(cols, sub.Column())
	}
	return append(cols, "email", "added_date", "photo_reference")
}

// EnsureSchema creates the tables if they are missing and checks that an
// existing students table carries the grade columns of mode. It never
// alters an existing table.
func EnsureSchema(ctx context.Context, db *sqlx.DB, mode model.GradeMode) error {
	for _, stmt := range []string{studentsTable(mode), usersTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "creating schema")
		}
	}

	probe := "SELECT " + strings.Join(studentColumns(mode), ", ") + " FROM students LIMIT 0"
	rows, err := db.QueryxContext(ctx, probe)
	if err != nil {
		return errors.Wrapf(err, "students table does not match grading mode %s", mode)
	}
	return rows.Close()
}
