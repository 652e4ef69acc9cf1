package main

import "github.com/pujaripavansai28/LMS/storage/database"

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(cli.db, cli.engine, cli.logger, args[0], args[1:]...)
}
