package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/admin/users", authed)
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	var filter user.QueryFilter
	var roles []string
	err := echo.QueryParamsBinder(ctx).
		String("search", &filter.Search).
		Strings("role", &roles).
		BindError()
	if err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	for _, r := range roles {
		filter.Roles = append(filter.Roles, auth.Role(r))
	}
	if v := ctx.QueryParam("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return core.NewFieldError("verified", "verified must be true or false")
		}
		filter.Verified = &verified
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.svc.Query(ctx.Request().Context(), principal(ctx), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := api.svc.Create(ctx.Request().Context(), principal(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "user")
	if err != nil {
		return err
	}
	usr, err := api.svc.Get(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "user")
	if err != nil {
		return err
	}
	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	usr, err := api.svc.Update(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "user")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}
