package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rionpgup/student-tracker/internal/model"
)

// register enrolls a student: it creates the record and a login for it,
// removing the record again if the login cannot be stored.
func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("register")
	id := fs.String("id", "", "Student id (required).")
	name := fs.String("name", "", "Student name (required).")
	email := fs.String("email", "", "Email address.")
	photo := fs.String("photo", "", "Photo reference.")
	username := fs.String("username", "", "Login name; defaults to the student id.")
	grades := gradeFlags(fs, cli.students.Mode())
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" || *name == "" {
		return usage(fs)
	}
	if *username == "" {
		*username = *id
	}

	pwd, err := cli.promptPassword("Enter password:")
	if err != nil {
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

	if _, err := cli.auth.Register(ctx, *username, pwd); err != nil {
		if delErr := cli.students.Delete(ctx, s.ID); delErr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back student %s: %w", s.ID, delErr))
		}
		return err
	}
	fmt.Fprintf(cli.out, "Registered student %s with login %s\n", s.ID, *username)
	return nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("login")
	username := fs.String("username", "", "Login name.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		return usage(fs)
	}

	pwd, err := cli.promptPassword("Enter password:")
	if err != nil {
		return err
	}
	cred, err := cli.auth.Authenticate(ctx, *username, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome %s (%s)\n", cred.Username, cred.Role)
	return nil
}

// passwd changes a password. Without -as the user proves the current
// password; with -as an admin authorises the reset.
func (cli *commandLine) passwd(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("passwd")
	username := fs.String("username", "", "Login whose password changes.")
	as := fs.String("as", "", "Admin login authorising the reset.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		return usage(fs)
	}

	actor := *username
	label := "Current password:"
	if *as != "" {
		actor = *as
		label = "Admin password:"
	}
	pwd, err := cli.promptPassword(label)
	if err != nil {
		return err
	}
	cred, err := cli.auth.Authenticate(ctx, actor, pwd)
	if err != nil {
		return err
	}
	if *as != "" && !cred.IsAdmin() {
		return errNotAdmin
	}

	newPwd, err := cli.promptPassword("New password:")
	if err != nil {
		return err
	}
	if err := cli.auth.ResetPassword(ctx, *username, newPwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Password changed for %s\n", *username)
	return nil
}
