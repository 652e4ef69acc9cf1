package echoapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pujaripavansai28/LMS/apps/api/web"
	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/core/user"
)

// Dashboard forms. Each action redirects back to the state it was posted from,
// with a flash telling how it went.

// Students

func (wa *webApp) submitAssignment(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	upload, closeUpload, err := formUpload(ctx, "file")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	defer closeUpload()

	res, err := wa.deps.AssignmentSvc.Submit(ctx.Request().Context(), principal(ctx), id, upload)
	msg := "Submission updated."
	if res.Created {
		msg = "Assignment submitted."
	}
	return wa.outcome(ctx, state, err, state.WithFlash(msg))
}

func (wa *webApp) submitQuiz(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	form, err := ctx.FormParams()
	if err != nil {
		return wa.outcome(ctx, state, core.NewFieldError("answers", "could not read the answers"), state)
	}

	res, err := wa.deps.QuizSvc.Submit(ctx.Request().Context(), principal(ctx), id, quiz.SubmitInput{Answers: web.QuizAnswers(form)})
	next := state.WithQuiz(id).WithFlash(fmt.Sprintf("Quiz submitted: %d of %d correct.", res.Score, res.Total))
	return wa.outcome(ctx, state, err, next)
}

func (wa *webApp) recordStudyTime(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data progress.TimeInput
	if err = ctx.Bind(&data); err == nil {
		_, err = wa.deps.ProgressSvc.RecordStudyTime(ctx.Request().Context(), principal(ctx), id, data)
	}
	return wa.outcome(ctx, state, err, state.WithFlash(fmt.Sprintf("%d minutes recorded.", data.Minutes)))
}

// Courses

func (wa *webApp) createCourse(ctx echo.Context) error {
	state := returnState(ctx)
	var data course.NewCourse
	err := ctx.Bind(&data)
	var c course.Course
	if err == nil {
		c, err = wa.deps.CourseSvc.Create(ctx.Request().Context(), principal(ctx), data)
	}
	return wa.outcome(ctx, state, err, state.WithCourse(c.ID).WithFlash("Course created."))
}

func (wa *webApp) updateCourse(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "course")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data course.UpdateCourse
	if err = ctx.Bind(&data); err == nil {
		_, err = wa.deps.CourseSvc.Update(ctx.Request().Context(), principal(ctx), id, data)
	}
	return wa.outcome(ctx, state, err, state.WithFlash("Course updated."))
}

func (wa *webApp) deleteCourse(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "course")
	if err == nil {
		err = wa.deps.CourseSvc.Delete(ctx.Request().Context(), principal(ctx), id)
	}
	return wa.outcome(ctx, state, err, state.WithCourse(0).WithFlash("Course deleted."))
}

// Assignments

func (wa *webApp) createAssignment(ctx echo.Context) error {
	state := returnState(ctx)
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	upload, closeUpload, err := formUpload(ctx, "file")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	defer closeUpload()

	_, err = wa.deps.AssignmentSvc.Create(ctx.Request().Context(), principal(ctx), courseID, data, upload)
	return wa.outcome(ctx, state, err, state.WithFlash("Assignment created."))
}

func (wa *webApp) deleteAssignment(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "assignment")
	if err == nil {
		err = wa.deps.AssignmentSvc.Delete(ctx.Request().Context(), principal(ctx), id)
	}
	return wa.outcome(ctx, state, err, state.WithFlash("Assignment deleted."))
}

func (wa *webApp) gradeSubmission(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "submission")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data assignment.GradeInput
	if err = ctx.Bind(&data); err == nil {
		_, err = wa.deps.AssignmentSvc.Grade(ctx.Request().Context(), principal(ctx), id, data)
	}
	return wa.outcome(ctx, state, err, state.WithFlash("Grade saved."))
}

// Quizzes

func (wa *webApp) createQuiz(ctx echo.Context) error {
	state := returnState(ctx)
	courseID, err := paramID(ctx, "id", "course")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data quiz.NewQuiz
	var q quiz.Quiz
	if err = ctx.Bind(&data); err == nil {
		q, err = wa.deps.QuizSvc.Create(ctx.Request().Context(), principal(ctx), courseID, data)
	}
	return wa.outcome(ctx, state, err, state.WithQuiz(q.ID).WithFlash("Quiz created."))
}

// addQuestion reads the options from a textarea, one per line.
func (wa *webApp) addQuestion(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "quiz")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	var data quiz.NewQuestion
	if err = ctx.Bind(&data); err == nil {
		data.Options = web.Lines(ctx.FormValue("options"))
		_, err = wa.deps.QuizSvc.AddQuestion(ctx.Request().Context(), principal(ctx), id, data)
	}
	return wa.outcome(ctx, state, err, state.WithQuiz(id).WithFlash("Question added."))
}

func (wa *webApp) deleteQuiz(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "quiz")
	if err == nil {
		err = wa.deps.QuizSvc.Delete(ctx.Request().Context(), principal(ctx), id)
	}
	next := state
	if state.QuizID == id {
		next = state.WithQuiz(0)
	}
	return wa.outcome(ctx, state, err, next.WithFlash("Quiz deleted."))
}

func (wa *webApp) gradeQuizSubmission(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "quiz submission")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	score, err := strconv.Atoi(strings.TrimSpace(ctx.FormValue("score")))
	if err != nil {
		return wa.outcome(ctx, state, core.NewFieldError("score", "score must be a whole number"), state)
	}
	_, err = wa.deps.QuizSvc.Grade(ctx.Request().Context(), principal(ctx), id, quiz.ScoreInput{Score: &score})
	return wa.outcome(ctx, state, err, state.WithFlash("Score saved."))
}

// Users

// updateUser changes the role and the verified flag; the other fields are left as they are.
func (wa *webApp) updateUser(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "user")
	if err != nil {
		return wa.outcome(ctx, state, err, state)
	}
	data := user.UpdateUser{Role: auth.Role(strings.TrimSpace(ctx.FormValue("role")))}
	if v := strings.TrimSpace(ctx.FormValue("verified")); v != "" {
		verified, perr := strconv.ParseBool(v)
		if perr != nil {
			return wa.outcome(ctx, state, core.NewFieldError("verified", "verified must be true or false"), state)
		}
		data.Verified = &verified
	}
	usr, err := wa.deps.UserSvc.Update(ctx.Request().Context(), principal(ctx), id, data)
	return wa.outcome(ctx, state, err, state.WithFlash(usr.Name+" updated."))
}

func (wa *webApp) deleteUser(ctx echo.Context) error {
	state := returnState(ctx)
	id, err := paramID(ctx, "id", "user")
	if err == nil {
		err = wa.deps.UserSvc.Delete(ctx.Request().Context(), principal(ctx), id)
	}
	return wa.outcome(ctx, state, err, state.WithFlash("User deleted."))
}
