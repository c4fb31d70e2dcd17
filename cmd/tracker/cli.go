package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/grade"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotAdmin    = errors.New("this command requires an admin account")
	errNotPrompted = errors.New("no password entered")
)

type commandLine struct {
	students *student.Service
	auth     *auth.Service
	out      io.Writer
	errOut   io.Writer
	stdinFd  int
}

func newCommandLine(students *student.Service, authSvc *auth.Service) *commandLine {
	return &commandLine{
		students: students,
		auth:     authSvc,
		out:      os.Stdout,
		errOut:   os.Stderr,
		stdinFd:  int(os.Stdin.Fd()),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.errOut, "Usage:")
	fmt.Fprintln(cli.errOut, "  add      -id ID -name NAME [-email E] [-photo P] [grade flags]  - add a student")
	fmt.Fprintln(cli.errOut, "  get      -id ID                                                 - show one student")
	fmt.Fprintln(cli.errOut, "  list     [-order name|id|added_date|grade] [-desc]              - list students")
	fmt.Fprintln(cli.errOut, "  search   -q TERM                                                - search by id or name")
	fmt.Fprintln(cli.errOut, "  update   -id ID [-name N] [-email E] [grade flags]              - change a student")
	fmt.Fprintln(cli.errOut, "  delete   -id ID -yes                                            - remove a student")
	fmt.Fprintln(cli.errOut, "  register -id ID -name NAME [-username U] [...]                  - enroll a student with a login")
	fmt.Fprintln(cli.errOut, "  login    -username U                                            - check a password")
	fmt.Fprintln(cli.errOut, "  passwd   -username U [-as ADMIN]                                - change a password")
	fmt.Fprintln(cli.errOut, "  import   -file roster.xlsx                                      - import students from a spreadsheet")
	fmt.Fprintln(cli.errOut, "  export   -file roster.xlsx                                      - export students to a spreadsheet")
	fmt.Fprintln(cli.errOut, "  change   [-old X] -new Y                                        - compare two grades")
	fmt.Fprintf(cli.errOut, "Grade flags (%s mode): %s\n", cli.students.Mode(), strings.Join(gradeFlagNames(cli.students.Mode()), ", "))
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, cmdArgs := args[1], args[2:]
	switch cmd {
	case "add":
		return cli.add(ctx, cmdArgs)
	case "get":
		return cli.get(ctx, cmdArgs)
	case "list":
		return cli.list(ctx, cmdArgs)
	case "search":
		return cli.search(ctx, cmdArgs)
	case "update":
		return cli.update(ctx, cmdArgs)
	case "delete":
		return cli.delete(ctx, cmdArgs)
	case "register":
		return cli.register(ctx, cmdArgs)
	case "login":
		return cli.login(ctx, cmdArgs)
	case "passwd":
		return cli.passwd(ctx, cmdArgs)
	case "import":
		return cli.importFile(ctx, cmdArgs)
	case "export":
		return cli.exportFile(ctx, cmdArgs)
	case "change":
		return cli.change(cmdArgs)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.errOut)
	return fs
}

// parse maps -h and flag errors onto errHelp; the flag package has already
// printed the reason and usage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	return nil
}

func usage(fs *flag.FlagSet) error {
	fs.Usage()
	return errHelp
}

func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.errOut, label)
	pwd, err := readPasswordFunc(cli.stdinFd)
	fmt.Fprintln(cli.errOut)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errNotPrompted
	}
	return string(pwd), nil
}

func (cli *commandLine) change(args []string) error {
	fs := cli.newFlagSet("change")
	oldRaw := fs.String("old", "", "Previous grade; leave empty when there is none.")
	newRaw := fs.String("new", "", "New grade.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*newRaw) == "" {
		return usage(fs)
	}

	var old *float64
	if strings.TrimSpace(*oldRaw) != "" {
		v, err := grade.Parse(*oldRaw)
		if err != nil {
			return err
		}
		old = &v
	}
	delta, err := grade.Compare(old, *newRaw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, delta.String())
	return nil
}

// gradeFlags registers one string flag per grade field of mode.
func gradeFlags(fs *flag.FlagSet, mode model.GradeMode) map[model.Subject]*string {
	flags := make(map[model.Subject]*string)
	for _, sub := range mode.Subjects() {
		flags[sub] = fs.String(sub.Column(), "", fmt.Sprintf("Value of %s.", sub.Column()))
	}
	return flags
}

func gradeValues(flags map[model.Subject]*string) map[model.Subject]string {
	out := make(map[model.Subject]string, len(flags))
	for sub, v := range flags {
		out[sub] = *v
	}
	return out
}

func gradeFlagNames(mode model.GradeMode) []string {
	var names []string
	for _, sub := range mode.Subjects() {
		names = append(names, "-"+sub.Column())
	}
	return names
}
