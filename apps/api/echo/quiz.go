package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core/quiz"
)

type quizApi struct {
	svc *quiz.Service
}

func registerQuizAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *quiz.Service) {
	api := quizApi{svc: svc}

	qg := g.Group("", authed)
	qg.POST("/courses/:id/quizzes", api.create)
	qg.GET("/courses/:id/quizzes", api.query)
	qg.POST("/quizzes/:id/questions", api.addQuestion)
	qg.GET("/quizzes/:id/questions", api.questions)
	qg.POST("/quizzes/:id/submit", api.submit)
	qg.GET("/quizzes/:id/submissions", api.submissions)
	qg.GET("/quizzes/:id/review", api.review)
	qg.GET("/quizzes/:id/my-rank", api.myRank)
	qg.DELETE("/quizzes/:id", api.destroy)
	qg.PUT("/quiz-submissions/:id/grade", api.grade)
	qg.GET("/my-quiz-submissions", api.mySubmissions)
}

// Handlers

func (api *quizApi) create(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	var data quiz.NewQuiz
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	q, err := api.svc.Create(ctx.Request().Context(), principal(ctx), courseID, data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *quizApi) query(ctx echo.Context) error {
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return err
	}
	qs, err := api.svc.ListForCourse(ctx.Request().Context(), principal(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ctx.JSON(http.StatusOK, qs)
}

func (api *quizApi) addQuestion(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	var data quiz.NewQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	q, err := api.svc.AddQuestion(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *quizApi) questions(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	qs, err := api.svc.ListQuestions(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	return ctx.JSON(http.StatusOK, qs)
}

func (api *quizApi) submit(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	var data quiz.SubmitInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitInput")
	}
	res, err := api.svc.Submit(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) submissions(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	subs, err := api.svc.ListSubmissions(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "querying quiz submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *quizApi) review(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	r, err := api.svc.Review(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "reviewing quiz")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *quizApi) myRank(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	r, err := api.svc.Rank(ctx.Request().Context(), principal(ctx), id)
	if err != nil {
		return errors.Wrap(err, "ranking quiz submission")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *quizApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), principal(ctx), id); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *quizApi) grade(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "quiz submission")
	if err != nil {
		return err
	}
	var data quiz.ScoreInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreInput")
	}
	sub, err := api.svc.Grade(ctx.Request().Context(), principal(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "grading quiz submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *quizApi) mySubmissions(ctx echo.Context) error {
	subs, err := api.svc.MySubmissions(ctx.Request().Context(), principal(ctx))
	if err != nil {
		return errors.Wrap(err, "querying my quiz submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}
