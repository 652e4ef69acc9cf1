package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if err := cli.usrSvc.SetPassword(context.Background(), email, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Password updated for %s\n", email)
	return nil
}
