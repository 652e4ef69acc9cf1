package echoapi

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/apps/api/web"
	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/user"
)

const (
	webPrefix   = web.Prefix
	tokenCookie = "lms_token"
	returnField = "return"
)

type webApp struct {
	deps Deps
	dash dashboard
}

// registerWebApp mounts the dashboard. Every action answers with a redirect to a full page (POST-redirect-GET).
func registerWebApp(app *echo.Echo, deps Deps) {
	wa := webApp{deps: deps, dash: dashboard{deps: deps}}

	g := app.Group(webPrefix)
	g.GET("/login", wa.loginPage)
	g.POST("/login", wa.login)
	g.GET("/register", wa.registerPage)
	g.POST("/register", wa.register)
	g.GET("/logout", wa.logout)
	g.POST("/logout", wa.logout)

	authed := g.Group("", wa.session)
	authed.GET("", wa.home)
	authed.POST("/courses/:id/enroll", wa.enroll)
	authed.POST("/courses/:id/unenroll", wa.unenroll)
	authed.POST("/notifications/:id/read", wa.markRead)

	// students
	authed.POST("/assignments/:id/submit", wa.submitAssignment)
	authed.POST("/quizzes/:id/submit", wa.submitQuiz)
	authed.POST("/courses/:id/time", wa.recordStudyTime)

	// instructors and admins
	authed.POST("/courses", wa.createCourse)
	authed.POST("/courses/:id/update", wa.updateCourse)
	authed.POST("/courses/:id/delete", wa.deleteCourse)
	authed.POST("/courses/:id/assignments", wa.createAssignment)
	authed.POST("/assignments/:id/delete", wa.deleteAssignment)
	authed.POST("/submissions/:id/grade", wa.gradeSubmission)
	authed.POST("/courses/:id/quizzes", wa.createQuiz)
	authed.POST("/quizzes/:id/questions", wa.addQuestion)
	authed.POST("/quizzes/:id/delete", wa.deleteQuiz)
	authed.POST("/quiz-submissions/:id/grade", wa.gradeQuizSubmission)
	authed.POST("/users/:id/update", wa.updateUser)
	authed.POST("/users/:id/delete", wa.deleteUser)
}

// session authenticates the token cookie; anonymous visitors are sent to the login page.
func (wa *webApp) session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var token string
		if c, err := ctx.Cookie(tokenCookie); err == nil {
			token = c.Value
		}
		p, err := wa.deps.Tokens.Parse(token)
		if err != nil {
			wa.clearSession(ctx)
			return ctx.Redirect(http.StatusSeeOther, webPrefix+"/login")
		}
		ctx.Set(contextPrincipalKey, p)
		return next(ctx)
	}
}

func (wa *webApp) startSession(ctx echo.Context, usr user.User) error {
	token, err := wa.deps.Tokens.Issue(usr.Principal())
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	ctx.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     webPrefix,
		MaxAge:   int(wa.deps.Conf.Server.JWTExpirationDelta.Seconds()),
		HttpOnly: true,
		Secure:   !(wa.deps.Conf.Debug || wa.deps.Conf.TestMode),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (wa *webApp) clearSession(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     webPrefix,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pages

func (wa *webApp) render(ctx echo.Context, page web.Page) error {
	page.AppName = wa.deps.Conf.AppName
	var buf bytes.Buffer
	if err := web.Render(&buf, page); err != nil {
		return err
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (wa *webApp) loginPage(ctx echo.Context) error {
	state := web.ParseState(ctx.QueryParams())
	return wa.render(ctx, web.Page{State: state, Data: web.LoginForm{Email: ctx.QueryParam("email")}})
}

func (wa *webApp) registerPage(ctx echo.Context) error {
	state := web.ParseState(ctx.QueryParams())
	return wa.render(ctx, web.Page{State: state, Data: web.RegisterForm{Role: "student"}})
}

func (wa *webApp) home(ctx echo.Context) error {
	state := web.ParseState(ctx.QueryParams())
	p := principal(ctx)
	reqCtx := ctx.Request().Context()

	usr, err := wa.deps.UserSvc.Me(reqCtx, p)
	if err != nil {
		if core.IsNotFound(err) { // account deleted since the token was issued
			wa.clearSession(ctx)
			return ctx.Redirect(http.StatusSeeOther, webPrefix+"/login")
		}
		return errors.Wrap(err, "finding current user")
	}

	data, err := wa.dash.build(reqCtx, p, state)
	// the selection is gone or out of reach: close the quiz, then the course
	for err != nil && isClientError(err) && state.CourseID > 0 {
		msg := errorMessage(err, wa.deps.Translator)
		if state.QuizID > 0 {
			state = state.WithQuiz(0)
		} else {
			state = state.WithCourse(0)
		}
		state = state.WithFlash(msg)
		data, err = wa.dash.build(reqCtx, p, state)
	}
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return wa.render(ctx, web.Page{State: state, User: &usr, Data: data})
}

// Actions

func (wa *webApp) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	usr, err := wa.deps.UserSvc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		state := web.ViewState{}.WithFlash(wa.message(ctx, err))
		return ctx.Redirect(http.StatusSeeOther, state.LoginURL())
	}
	if err = wa.startSession(ctx, usr); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, webPrefix)
}

func (wa *webApp) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := wa.deps.UserSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		state := web.ViewState{}.WithFlash(wa.message(ctx, err))
		return ctx.Redirect(http.StatusSeeOther, state.RegisterURL())
	}
	if err = wa.startSession(ctx, usr); err != nil {
		return err
	}
	state := web.ViewState{}.WithFlash("Welcome, " + usr.Name + "!")
	return ctx.Redirect(http.StatusSeeOther, state.URL())
}

func (wa *webApp) logout(ctx echo.Context) error {
	wa.clearSession(ctx)
	return ctx.Redirect(http.StatusSeeOther, webPrefix+"/login")
}

func (wa *webApp) enroll(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "course")
	if err == nil {
		_, err = wa.deps.CourseSvc.Enroll(ctx.Request().Context(), principal(ctx), id)
	}
	if err != nil {
		return wa.redirect(ctx, state.WithFlash(wa.message(ctx, err)))
	}
	return wa.redirect(ctx, state.WithCourse(id).WithFlash("Enrolled successfully."))
}

func (wa *webApp) unenroll(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "course")
	if err == nil {
		err = wa.deps.CourseSvc.Unenroll(ctx.Request().Context(), principal(ctx), id)
	}
	if err != nil {
		return wa.redirect(ctx, state.WithFlash(wa.message(ctx, err)))
	}
	return wa.redirect(ctx, state.WithCourse(0).WithFlash("Unenrolled successfully."))
}

func (wa *webApp) markRead(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "notification")
	if err == nil {
		_, err = wa.deps.NotificationSvc.MarkRead(ctx.Request().Context(), principal(ctx), id)
	}
	if err != nil {
		return wa.redirect(ctx, state.WithFlash(wa.message(ctx, err)))
	}
	return wa.redirect(ctx, state)
}

func (wa *webApp) redirect(ctx echo.Context, state web.ViewState) error {
	return ctx.Redirect(http.StatusSeeOther, state.URL())
}

// outcome goes back to state showing the error, or on to next when err is nil.
func (wa *webApp) outcome(ctx echo.Context, state web.ViewState, err error, next web.ViewState) error {
	if err != nil {
		return wa.redirect(ctx, state.WithFlash(wa.message(ctx, err)))
	}
	return wa.redirect(ctx, next)
}

// message logs server errors, which the dashboard only shows as a generic message.
func (wa *webApp) message(ctx echo.Context, err error) string {
	if !isClientError(err) {
		if p, ok := contextPrincipal(ctx); ok {
			wa.deps.Logger.Error("dashboard action failed", err, p)
		} else {
			wa.deps.Logger.Error("dashboard action failed", err)
		}
	}
	return errorMessage(err, wa.deps.Translator)
}

// returnState is the dashboard state the action was posted from.
func returnState(ctx echo.Context) web.ViewState {
	q, _ := url.ParseQuery(ctx.FormValue(returnField))
	return web.ParseState(q).WithFlash("")
}

func isClientError(err error) bool {
	code, _ := errorResponse(err, nil)
	return code < http.StatusInternalServerError
}
