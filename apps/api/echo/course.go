package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{svc: svc}

	// public endpoints
	g.GET("/courses", api.query)
	g.GET("/courses/:id", api.retrieve)

	// authed endpoints
	g.POST("/courses", api.create, authed)
	g.PUT("/courses/:id", api.update, authed)
	g.DELETE("/courses/:id", api.destroy, authed)
	g.POST("/courses/:id/enroll", api.enroll, authed)
	g.DELETE("/courses/:id/unenroll", api.unenroll, authed)
	g.GET("/my-courses", api.myCourses, authed)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	filter := course.QueryFilter{Search: ctx.QueryParam("search")}
	courses, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	c, err := api.svc.Create(ctx.Request().Context(), principal(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	c, err := api.svc.Update(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *courseApi) enroll(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	if _, err = api.svc.Enroll(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *courseApi) unenroll(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	if err = api.svc.Unenroll(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "unenrolling")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *courseApi) myCourses(ctx echo.Context) error {
	courses, err := api.svc.MyCourses(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "querying my courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}
