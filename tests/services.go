package testutil

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

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
	"github.com/pujaripavansai28/LMS/storage/database/sqlxrepos"
	"github.com/pujaripavansai28/LMS/storage/files"
)

// Services is the full service graph over a private test database.
type Services struct {
	Conf       *core.Config
	DB         *sqlx.DB
	Logger     core.Logger
	Translator ut.Translator
	Validate   *validator.Validate
	Tokens     *auth.TokenIssuer
	Metrics    *metricsvc.Metrics
	Mailer     *emailsvc.ConsoleServiceMock
	Files      *files.LocalStore

	Users         *user.Service
	Courses       *course.Service
	Assignments   *assignment.Service
	Quizzes       *quiz.Service
	Progress      *progress.Service
	Notifications *notification.Service
}

// NewServices wires every service the way the API does, with a mock mailer and uploads in a temp dir.
func NewServices(t *testing.T, conf ...*core.Config) *Services {
	t.Helper()
	c := Config()
	if len(conf) > 0 {
		c = conf[0]
	}
	c.Uploads.Dir = t.TempDir()

	db := PrepareDB(t, c)
	store, err := files.NewLocalStore(c.Uploads.Dir, c.Uploads.URLPrefix)
	if err != nil {
		t.Fatalf("NewServices() failed: %v", err)
	}

	s := &Services{
		Conf:       c,
		DB:         db,
		Logger:     logsvc.NewNop(),
		Translator: shared.NewTranslator(),
		Tokens:     auth.NewTokenIssuer(c),
		Metrics:    metricsvc.New(),
		Files:      store,
	}
	s.Validate = shared.NewValidator(s.Translator)
	s.Mailer = emailsvc.NewConsoleServiceMock(c, s.Logger)

	s.Users = user.NewService(sqlxrepos.NewUserRepository(db), s.Validate)
	s.Courses = course.NewService(sqlxrepos.NewCourseRepository(db), s.Validate)
	s.Notifications = notification.NewService(c, sqlxrepos.NewNotificationRepository(db), s.Logger, s.Mailer, s.Metrics)
	s.Assignments = assignment.NewService(db, sqlxrepos.NewAssignmentRepository(db), s.Courses, store, s.Notifications, s.Validate)
	s.Quizzes = quiz.NewService(db, sqlxrepos.NewQuizRepository(db), s.Courses, s.Notifications, s.Validate)
	s.Progress = progress.NewService(sqlxrepos.NewProgressRepository(db), s.Courses, s.Validate)
	return s
}

// Token returns a bearer token for usr.
func (s *Services) Token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := s.Tokens.Issue(usr.Principal())
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}
