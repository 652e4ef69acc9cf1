// Package dig_container wires the API dependencies with go.uber.org/dig.
package dig_container

import (
	"context"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/pujaripavansai28/LMS/apps/api/echo"
	"github.com/pujaripavansai28/LMS/apps/shared"
	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/notification"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
	emailsvc "github.com/pujaripavansai28/LMS/services/email"
	logsvc "github.com/pujaripavansai28/LMS/services/logger"
	metricsvc "github.com/pujaripavansai28/LMS/services/metrics"
	"github.com/pujaripavansai28/LMS/storage/database"
	"github.com/pujaripavansai28/LMS/storage/database/sqlxrepos"
	"github.com/pujaripavansai28/LMS/storage/files"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	serverParams struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Tokens     *auth.TokenIssuer
		Metrics    *metricsvc.Metrics
		Files      core.FileStore

		UserSvc         *user.Service
		CourseSvc       *course.Service
		AssignmentSvc   *assignment.Service
		QuizSvc         *quiz.Service
		ProgressSvc     *progress.Service
		NotificationSvc *notification.Service
	}
)

func newLogger(conf *core.Config) core.Logger {
	logger, err := logsvc.New("api", conf)
	if err != nil {
		log.Fatal(errors.Wrap(err, "creating api logger").Error())
	}
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger, err := logsvc.New("db", conf)
	if err != nil {
		log.Fatal(errors.Wrap(err, "creating db logger").Error())
	}
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db, conf.Database.Engine, loggerParam.Logger); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal("setting up database", err)
	}
	return db, db, db
}

func newFileStore(conf *core.Config, logger core.Logger) core.FileStore {
	store, err := files.New(context.Background(), conf)
	if err != nil {
		logger.Fatal("setting up uploads storage", err)
	}
	return store
}

func newValidator(translator ut.Translator) *validator.Validate {
	return shared.NewValidator(translator)
}

func newRecorder(m *metricsvc.Metrics) notification.Recorder { return m }

func newNotifier(svc *notification.Service) core.Notifier { return svc }

// newCourseGates exposes the course service to the services that check course access.
func newCourseGates(svc *course.Service) (assignment.Courses, quiz.Courses, progress.Courses) {
	return svc, svc, svc
}

func newServer(p serverParams) *echoapi.Server {
	deps := echoapi.Deps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Translator:      p.Translator,
		Tokens:          p.Tokens,
		Metrics:         p.Metrics,
		UserSvc:         p.UserSvc,
		CourseSvc:       p.CourseSvc,
		AssignmentSvc:   p.AssignmentSvc,
		QuizSvc:         p.QuizSvc,
		ProgressSvc:     p.ProgressSvc,
		NotificationSvc: p.NotificationSvc,
	}
	if local, ok := p.Files.(*files.LocalStore); ok {
		deps.UploadsDir = local.Dir()
	}
	return echoapi.NewServer(deps)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	// ambient
	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(shared.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(metricsvc.New))
	must(c.Provide(newRecorder))

	// storage
	must(c.Provide(newDB))
	must(c.Provide(newFileStore))
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewCourseRepository, dig.As(new(course.Repository))))
	must(c.Provide(sqlxrepos.NewAssignmentRepository, dig.As(new(assignment.Repository))))
	must(c.Provide(sqlxrepos.NewQuizRepository, dig.As(new(quiz.Repository))))
	must(c.Provide(sqlxrepos.NewProgressRepository, dig.As(new(progress.Repository))))
	must(c.Provide(sqlxrepos.NewNotificationRepository, dig.As(new(notification.Repository))))

	// services
	must(c.Provide(emailsvc.New))
	must(c.Provide(auth.NewTokenIssuer))
	must(c.Provide(user.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(newCourseGates))
	must(c.Provide(notification.NewService))
	must(c.Provide(newNotifier))
	must(c.Provide(assignment.NewService))
	must(c.Provide(quiz.NewService))
	must(c.Provide(progress.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
