package main

import (
	"log"
	"os"

	"github.com/pujaripavansai28/LMS/apps/shared"
	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/user"
	logsvc "github.com/pujaripavansai28/LMS/services/logger"
	"github.com/pujaripavansai28/LMS/storage/database"
	"github.com/pujaripavansai28/LMS/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()
	logger, err := logsvc.New("admin", conf)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// set up DB
	errAndDie(logger, database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(logger, err)
	defer db.Close()
	errAndDie(logger, db.Ping())

	validate := shared.NewValidator(shared.NewTranslator())

	// start CLI
	cli := commandLine{
		db:        db,
		engine:    conf.Database.Engine,
		logger:    logger,
		out:       os.Stdout,
		usrSvc:    user.NewService(sqlxrepos.NewUserRepository(db), validate),
		courseSvc: course.NewService(sqlxrepos.NewCourseRepository(db), validate),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal("setting up database", err)
	}
}
