package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/progress"
)

type progressApi struct {
	svc *progress.Service
}

func registerProgressAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *progress.Service) {
	api := progressApi{svc: svc}

	pg := g.Group("", authed)
	pg.GET("/courses/:id/progress", api.progress)
	pg.GET("/courses/:id/grades", api.grades)
	pg.GET("/courses/:id/leaderboard", api.leaderboard)
	pg.POST("/courses/:id/time", api.studyTime)
	pg.GET("/grades-overview", api.overview)
	pg.GET("/my-badges", api.badges)
}

// Handlers

func (api *progressApi) progress(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	p, err := api.svc.CourseProgress(ctx.Request().Context(), principal(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *progressApi) grades(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	grades, err := api.svc.CourseGrades(ctx.Request().Context(), principal(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "querying course grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *progressApi) leaderboard(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	rows, err := api.svc.Leaderboard(ctx.Request().Context(), principal(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *progressApi) studyTime(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	var data progress.TimeInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TimeInput")
	}
	st, err := api.svc.RecordStudyTime(ctx.Request().Context(), principal(ctx), courseID, data)
	if err != nil {
		return errors.Wrap(err, "recording study time")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *progressApi) overview(ctx echo.Context) error {
	o, err := api.svc.Overview(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "computing grades overview")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *progressApi) badges(ctx echo.Context) error {
	badges, err := api.svc.Badges(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "computing badges")
	}
	return ctx.JSON(http.StatusOK, badges)
}
