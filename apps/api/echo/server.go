// Package echoapi is the HTTP surface of the LMS: the JSON API under /api and the dashboard under /app.
package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/notification"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
	metricsvc "github.com/pujaripavansai28/LMS/services/metrics"
)

type (
	// Deps are the collaborators of the Server. Metrics and UploadsDir are optional.
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Tokens     *auth.TokenIssuer
		Metrics    *metricsvc.Metrics
		UploadsDir string

		UserSvc         *user.Service
		CourseSvc       *course.Service
		AssignmentSvc   *assignment.Service
		QuizSvc         *quiz.Service
		ProgressSvc     *progress.Service
		NotificationSvc *notification.Service
	}

	Server struct {
		deps     Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(requestLogger(s.deps.Logger))
	}
	s.app.Use(metricsMiddleware(s.deps.Metrics))
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.Recover())
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: conf.Server.CORSOrigins}))
	if conf.Server.BodyLimit != "" {
		s.app.Use(middleware.BodyLimit(conf.Server.BodyLimit))
	}

	s.app.GET("/", func(ctx echo.Context) error { return ctx.Redirect(http.StatusFound, webPrefix) })
	s.app.GET("/health", health)
	if s.deps.Metrics != nil {
		s.app.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
	}
	if s.deps.UploadsDir != "" {
		s.app.Static(conf.Uploads.URLPrefix, s.deps.UploadsDir)
	}

	api := s.app.Group("/api")
	authed := authMiddleware(s.deps.Tokens)

	registerAuthAPI(api, authed, s.deps.UserSvc, s.deps.Tokens)
	registerUserAPI(api, authed, s.deps.UserSvc)
	registerCourseAPI(api, authed, s.deps.CourseSvc)
	registerAssignmentAPI(api, authed, s.deps.AssignmentSvc)
	registerQuizAPI(api, authed, s.deps.QuizSvc)
	registerProgressAPI(api, authed, s.deps.ProgressSvc)
	registerNotificationAPI(api, authed, s.deps.NotificationSvc)

	registerWebApp(s.app, s.deps)
}

// Start blocks until the server stops; listen errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok", "time": time.Now().UTC()})
}
