package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/progress"
	"github.com/pujaripavansai28/LMS/core/quiz"
	"github.com/pujaripavansai28/LMS/tests"
)

func Test_progressApi(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	owner := testutil.CreateUser(t, app.DB, "Owner", "owner@test.io", auth.RoleInstructor)
	student := testutil.CreateUser(t, app.DB, "Student", "student@test.io", auth.RoleStudent)
	outsider := testutil.CreateUser(t, app.DB, "Outsider", "outsider@test.io", auth.RoleStudent)
	c := testutil.CreateCourse(t, app.DB, "Go Basics", owner)
	testutil.Enroll(t, app.DB, student, c)
	a := testutil.CreateAssignment(t, app.DB, c, "Homework")
	q := testutil.CreateQuiz(t, app.DB, c, "Week 1")
	q1 := testutil.AddQuestion(t, app.DB, q, "Go has generics", quiz.TypeTrueFalse, "true")
	q2 := testutil.AddQuestion(t, app.DB, q, "2+2", quiz.TypeNumerical, "4")
	studentToken := app.token(t, student)

	progressPath := fmt.Sprintf("/api/courses/%d/progress", c.ID)
	gradesPath := fmt.Sprintf("/api/courses/%d/grades", c.ID)
	leaderboardPath := fmt.Sprintf("/api/courses/%d/leaderboard", c.ID)
	timePath := fmt.Sprintf("/api/courses/%d/time", c.ID)

	app.run(t, []httpTest{
		{name: "progress: auth required", method: http.MethodGet, path: progressPath, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "progress: students only", method: http.MethodGet, path: progressPath, token: app.token(t, owner), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "progress: unknown course", method: http.MethodGet, path: "/api/courses/999/progress", token: studentToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("course"))},
		{name: "progress: nothing done", method: http.MethodGet, path: progressPath, token: studentToken, wantData: marchallObj(t, progress.Progress{CourseID: c.ID, Total: 2})},
		{name: "grades: none", method: http.MethodGet, path: gradesPath, token: studentToken, wantData: marchallList(t)},
		{name: "leaderboard: empty", method: http.MethodGet, path: leaderboardPath, token: app.token(t, owner), wantData: marchallList(t)},
		{name: "badges: none", method: http.MethodGet, path: "/api/my-badges", token: studentToken, wantData: marchallList(t)},
		{name: "badges: staff", method: http.MethodGet, path: "/api/my-badges", token: app.token(t, owner), wantData: marchallList(t)},
		{
			name: "time: required", method: http.MethodPost, path: timePath, token: studentToken, body: []byte(`{"timeSpent":0}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{"timeSpent": "this field is required"})),
		},
		{name: "time: not enrolled", method: http.MethodPost, path: timePath, token: app.token(t, outsider), body: []byte(`{"timeSpent":10}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbiddenMsg("you are not enrolled in this course"))},
		{name: "time: first session", method: http.MethodPost, path: timePath, token: studentToken, body: []byte(`{"timeSpent":30}`), wantData: marchallObj(t, progress.StudyTime{CourseID: c.ID, Minutes: 30})},
		{name: "time: adds up", method: http.MethodPost, path: timePath, token: studentToken, body: []byte(`{"timeSpent":15}`), wantData: marchallObj(t, progress.StudyTime{CourseID: c.ID, Minutes: 45})},
	})

	// the student submits everything, with full marks on the quiz
	res, err := app.Assignments.Submit(ctx, student.Principal(), a.ID, nil)
	require.NoError(t, err)
	_, err = app.Assignments.Grade(ctx, owner.Principal(), res.Submission.ID, assignment.GradeInput{Grade: "B"})
	require.NoError(t, err)
	_, err = app.Quizzes.Submit(ctx, student.Principal(), q.ID, quiz.SubmitInput{Answers: map[string]interface{}{
		fmt.Sprint(q1.ID): "true",
		fmt.Sprint(q2.ID): 4.0,
	}})
	require.NoError(t, err)

	app.run(t, []httpTest{
		{name: "progress: complete", method: http.MethodGet, path: progressPath, token: studentToken, wantData: marchallObj(t, progress.Progress{CourseID: c.ID, Percent: 100, Completed: 2, Total: 2, StudyMinutes: 45})},
		{
			name: "grades", method: http.MethodGet, path: gradesPath, token: studentToken,
			wantData: marchallList(t,
				progress.GradeEntry{Title: "Homework", Grade: null.StringFrom("B"), Kind: progress.KindAssignment},
				progress.GradeEntry{Title: "Week 1", Grade: null.StringFrom("2"), Kind: progress.KindQuiz},
			),
		},
		{
			name: "grades overview", method: http.MethodGet, path: "/api/grades-overview", token: studentToken,
			wantData: marchallObj(t, progress.Overview{
				Assignments: []progress.AssignmentGrade{{Assignment: "Homework", Grade: null.StringFrom("B")}},
				Quizzes:     []progress.QuizScore{{Quiz: "Week 1", Score: 2}},
			}),
		},
		{name: "grades overview: students only", method: http.MethodGet, path: "/api/grades-overview", token: app.token(t, owner), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "leaderboard", method: http.MethodGet, path: leaderboardPath, token: studentToken, wantData: marchallList(t, progress.LeaderboardEntry{Name: "Student", TotalScore: 2})},
		{
			name: "badges", method: http.MethodGet, path: "/api/my-badges", token: studentToken,
			wantData: marchallList(t,
				progress.Badge{Name: progress.BadgeCourseFinisher, Description: `Completed "Go Basics"!`},
				progress.Badge{Name: progress.BadgeQuizAce, Description: `Full marks on "Week 1".`},
			),
		},
	})
}
