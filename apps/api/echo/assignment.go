package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/assignment"
)

type assignmentApi struct {
	svc *assignment.Service
}

func registerAssignmentAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *assignment.Service) {
	api := assignmentApi{svc: svc}

	ag := g.Group("", authed)
	ag.POST("/courses/:id/assignments", api.create)
	ag.GET("/courses/:id/assignments", api.query)
	ag.POST("/assignments/:id/submit", api.submit)
	ag.GET("/assignments/:id/submissions", api.submissions)
	ag.DELETE("/assignments/:id", api.destroy)
	ag.PUT("/submissions/:id/grade", api.grade)
	ag.GET("/my-submissions", api.mySubmissions)
}

// Handlers

// create accepts JSON or a multipart form carrying an optional `file`.
func (api *assignmentApi) create(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	upload, closeUpload, err := formUpload(ctx, "file")
	if err != nil {
		return err
	}
	defer closeUpload()

	a, err := api.svc.Create(ctx.Request().Context(), principal(ctx), courseID, data, upload)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	as, err := api.svc.ListForCourse(ctx.Request().Context(), principal(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return err
	}
	upload, closeUpload, err := formUpload(ctx, "file")
	if err != nil {
		return err
	}
	defer closeUpload()

	res, err := api.svc.Submit(ctx.Request().Context(), principal(ctx), id, upload)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *assignmentApi) submissions(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return err
	}
	subs, err := api.svc.ListSubmissions(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "submission")
	if err != nil {
		return err
	}
	var data assignment.GradeInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeInput")
	}
	sub, err := api.svc.Grade(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) mySubmissions(ctx echo.Context) error {
	subs, err := api.svc.MySubmissions(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "querying my submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
