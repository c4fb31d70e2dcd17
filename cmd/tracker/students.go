package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Rionpgup/student-tracker/internal/excel"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
)

func (cli *commandLine) add(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("add")
	id := fs.String("id", "", "Student id (required).")
	name := fs.String("name", "", "Student name (required).")
	email := fs.String("email", "", "Email address.")
	photo := fs.String("photo", "", "Photo reference.")
	grades := gradeFlags(fs, cli.students.Mode())
	if err := parse(fs, args); err != nil {
		return err
	}

	s, err := cli.students.Create(ctx, model.NewStudent{
		ID:       *id,
		Name:     *name,
		Email:    *email,
		PhotoRef: *photo,
		Grades:   gradeValues(grades),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Added student %s (%s)\n", s.ID, s.Name)
	return nil
}

func (cli *commandLine) get(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("get")
	id := fs.String("id", "", "Student id.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}

	s, err := cli.students.Read(ctx, *id)
	if err != nil {
		return err
	}
	cli.printStudents([]model.Student{s})
	return nil
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("list")
	order := fs.String("order", string(model.OrderByName), "Sort key: name, id, added_date or grade.")
	desc := fs.Bool("desc", false, "Sort descending.")
	if err := parse(fs, args); err != nil {
		return err
	}

	students, err := cli.students.List(ctx, model.Ordering{Field: model.OrderField(*order), Descending: *desc})
	if err != nil {
		return err
	}
	cli.printStudents(students)
	return nil
}

func (cli *commandLine) search(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("search")
	term := fs.String("q", "", "Text to look for in ids and names.")
	if err := parse(fs, args); err != nil {
		return err
	}

	students, err := cli.students.Search(ctx, *term)
	if err != nil {
		return err
	}
	cli.printStudents(students)
	return nil
}

func (cli *commandLine) update(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("update")
	id := fs.String("id", "", "Student id (required).")
	name := fs.String("name", "", "New name; empty keeps the current one.")
	email := fs.String("email", "", "New email; empty keeps the current one.")
	grades := gradeFlags(fs, cli.students.Mode())
	if err := parse(fs, args); err != nil {
		return err
	}
	upd := model.UpdateStudent{
		Name:   *name,
		Email:  *email,
		Grades: gradeValues(grades),
	}
	if *id == "" || upd.IsEmpty() {
		return usage(fs)
	}

	res, err := cli.students.Update(ctx, *id, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated student %s\n", res.Student.ID)
	for _, c := range res.Changes {
		fmt.Fprintf(cli.out, "  %s: %s\n", c.Subject.Column(), c.Delta)
	}
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("delete")
	id := fs.String("id", "", "Student id (required).")
	yes := fs.Bool("yes", false, "Confirm the deletion.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(fs)
	}
	if !*yes {
		return fmt.Errorf("refusing to delete %s without -yes", *id)
	}

	if err := cli.students.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted student %s\n", *id)
	return nil
}

func (cli *commandLine) importFile(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("import")
	path := fs.String("file", "", "Spreadsheet to read (.xlsx).")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return usage(fs)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	strategy := excel.NewExcelStrategy(cli.students.Mode())
	rows, err := strategy.Parse(ctx, data)
	if err != nil {
		return err
	}
	if err := strategy.Validate(ctx, rows); err != nil {
		return err
	}

	report, err := cli.students.Import(ctx, rows)
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(cli.out, "row %d (%s): %s: %v\n", r.Row, r.ID, r.Outcome, r.Err)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Imported %d students, %d duplicates, %d invalid\n",
		report.Count(student.ImportCreated), report.Count(student.ImportDuplicate), report.Count(student.ImportInvalid))
	return nil
}

func (cli *commandLine) exportFile(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("export")
	path := fs.String("file", "", "Spreadsheet to write (.xlsx).")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return usage(fs)
	}

	students, err := cli.students.List(ctx, model.Ordering{Field: model.OrderByID})
	if err != nil {
		return err
	}
	data, err := excel.Export(students, cli.students.Mode())
	if err != nil {
		return err
	}
	if err := os.WriteFile(*path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Exported %d students to %s\n", len(students), *path)
	return nil
}

func (cli *commandLine) printStudents(students []model.Student) {
	if len(students) == 0 {
		fmt.Fprintln(cli.out, "No students found.")
		return
	}

	subjects := cli.students.Mode().Subjects()
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	header := []string{"ID", "NAME"}
	for _, sub := range subjects {
		header = append(header, strings.ToUpper(sub.Column()))
	}
	header = append(header, "EMAIL", "ADDED")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, s := range students {
		cols := []string{s.ID, s.Name}
		for _, sub := range subjects {
			cols = append(cols, formatGrade(s.Grades, sub))
		}
		cols = append(cols, orDash(s.Email), s.AddedDate.Format("2006-01-02"))
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	_ = w.Flush()
}

func formatGrade(g model.Grades, sub model.Subject) string {
	if v, ok := g.Get(sub); ok {
		return fmt.Sprintf("%.1f", v)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
