package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/user"
)

const contextPrincipalKey = "principal"

// authMiddleware authenticates the bearer token of the request.
// Authorization itself is left to the services.
func authMiddleware(tokens *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := tokens.Parse(bearerToken(ctx.Request()))
			if err != nil {
				return err
			}
			ctx.Set(contextPrincipalKey, p)
			return next(ctx)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

func contextPrincipal(ctx echo.Context) (auth.Principal, bool) {
	p, ok := ctx.Get(contextPrincipalKey).(auth.Principal)
	return p, ok
}

// principal returns the authenticated caller; the zero Principal fails every role gate.
func principal(ctx echo.Context) auth.Principal {
	p, _ := contextPrincipal(ctx)
	return p
}

type (
	authApi struct {
		svc    *user.Service
		tokens *auth.TokenIssuer
	}

	AuthResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
)

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service, tokens *auth.TokenIssuer) {
	api := authApi{svc: svc, tokens: tokens}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.GET("/me", api.me, authed)
}

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return api.respond(ctx, http.StatusCreated, usr)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	usr, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	return api.respond(ctx, http.StatusOK, usr)
}

func (api *authApi) respond(ctx echo.Context, code int, usr user.User) error {
	token, err := api.tokens.Issue(usr.Principal())
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	return ctx.JSON(code, AuthResponse{Token: token, User: usr})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := api.svc.Me(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "finding current user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
