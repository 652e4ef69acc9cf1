package main

import (
	"context"
	"fmt"
)

// createAdmin leaves an existing account untouched.
func (cli *commandLine) createAdmin(name, email, pwd string) error {
	usr, created, err := cli.usrSvc.EnsureAdmin(context.Background(), name, email, pwd)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(cli.out, "A user with email %s already exists\n", usr.Email)
		return nil
	}
	fmt.Fprintf(cli.out, "Admin %s created\n", usr.Email)
	return nil
}
