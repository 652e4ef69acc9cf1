package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) fillDescriptions(text string) error {
	n, err := cli.courseSvc.FillDescriptions(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d course(s) updated\n", n)
	return nil
}
