package tests

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujaripavansai28/LMS/core/assignment"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/tests"
)

func Test_assignmentApi_create(t *testing.T) {
	app := newTestApp(t)
	owner := testutil.CreateUser(t, app.DB, "Owner", "owner@test.io", auth.RoleInstructor)
	other := testutil.CreateUser(t, app.DB, "Other", "other@test.io", auth.RoleInstructor)
	student := testutil.CreateUser(t, app.DB, "Student", "student@test.io", auth.RoleStudent)
	c := testutil.CreateCourse(t, app.DB, "Go Basics", owner)
	testutil.Enroll(t, app.DB, student, c)
	path := fmt.Sprintf("/api/courses/%d/assignments", c.ID)

	app.run(t, []httpTest{
		{name: "auth required", method: http.MethodPost, path: path, body: []byte(`{"title":"HW"}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "students cannot", method: http.MethodPost, path: path, token: app.token(t, student), body: []byte(`{"title":"HW"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "not the owner", method: http.MethodPost, path: path, token: app.token(t, other), body: []byte(`{"title":"HW"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "unknown course", method: http.MethodPost, path: "/api/courses/999/assignments", token: app.token(t, owner), body: []byte(`{"title":"HW"}`), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("course"))},
		{
			name: "invalid link", method: http.MethodPost, path: path, token: app.token(t, owner),
			body: []byte(`{"title":"HW","link":"not a link"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{"link": "link must be a valid URL"})),
		},
		{
			name: "invalid deadline", method: http.MethodPost, path: path, token: app.token(t, owner),
			body: []byte(`{"title":"HW","deadline":"next friday"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("deadline must be a date or a date-time", map[string]string{"deadline": "deadline must be a date or a date-time"})),
		},
	})

	t.Run("json", func(t *testing.T) {
		body := []byte(`{"title":"Homework 1","description":"Read chapter 1","deadline":"2030-01-02T15:04","link":"https://go.dev/doc"}`)
		req, rec := newAuthRequest(http.MethodPost, path, app.token(t, owner), body)
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var a assignment.Assignment
		unmarshal(t, rec, &a)
		assert.Equal(t, c.ID, a.CourseID)
		assert.Equal(t, "Homework 1", a.Title)
		assert.Equal(t, "2030-01-02 15:04", a.Deadline.Time.UTC().Format("2006-01-02 15:04"))
		assert.Equal(t, "https://go.dev/doc", a.Link.String)
		assert.False(t, a.FilePath.Valid)

		notes, err := app.Notifications.List(req.Context(), student.Principal())
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, `New assignment "Homework 1" added to your course.`, notes[0].Message)
		assert.False(t, notes[0].IsRead)
	})

	t.Run("multipart with file", func(t *testing.T) {
		req, rec := newMultipartRequest(t, http.MethodPost, path, app.token(t, owner),
			map[string]string{"title": "Homework 2"}, "brief.pdf", []byte("%PDF-1.4 brief"))
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var a assignment.Assignment
		unmarshal(t, rec, &a)
		assert.Equal(t, "Homework 2", a.Title)
		require.True(t, a.FilePath.Valid)
		assert.True(t, strings.HasPrefix(a.FilePath.String, "/uploads/"), a.FilePath.String)
		assert.True(t, strings.HasSuffix(a.FilePath.String, ".pdf"), a.FilePath.String)

		content, err := os.ReadFile(filepath.Join(app.Files.Dir(), filepath.Base(a.FilePath.String)))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 brief", string(content))

		// the stored file is served back
		req, rec = newRequest(http.MethodGet, a.FilePath.String)
		app.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "%PDF-1.4 brief", rec.Body.String())
	})

	t.Run("list", func(t *testing.T) {
		for _, tok := range []string{app.token(t, owner), app.token(t, student)} {
			req, rec := newAuthRequest(http.MethodGet, path, tok)
			app.serve(req, rec)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var as []assignment.Assignment
			unmarshal(t, rec, &as)
			require.Len(t, as, 2)
			assert.Equal(t, "Homework 1", as[0].Title)
			assert.Equal(t, "Homework 2", as[1].Title)
		}

		stranger := testutil.CreateUser(t, app.DB, "Stranger", "stranger@test.io", auth.RoleStudent)
		req, rec := newAuthRequest(http.MethodGet, path, app.token(t, stranger))
		app.serve(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.True(t, jsonBytesEqual(t, marchallObj(t, errForbiddenMsg("you are not enrolled in this course")), rec.Body.Bytes()))
	})
}

func Test_assignmentApi_submissions(t *testing.T) {
	app := newTestApp(t)
	owner := testutil.CreateUser(t, app.DB, "Owner", "owner@test.io", auth.RoleInstructor)
	other := testutil.CreateUser(t, app.DB, "Other", "other@test.io", auth.RoleInstructor)
	student := testutil.CreateUser(t, app.DB, "Student", "student@test.io", auth.RoleStudent)
	outsider := testutil.CreateUser(t, app.DB, "Outsider", "outsider@test.io", auth.RoleStudent)
	c := testutil.CreateCourse(t, app.DB, "Go Basics", owner)
	testutil.Enroll(t, app.DB, student, c)
	a := testutil.CreateAssignment(t, app.DB, c, "Homework")
	submitPath := fmt.Sprintf("/api/assignments/%d/submit", a.ID)
	studentToken := app.token(t, student)

	app.run(t, []httpTest{
		{name: "submit: students only", method: http.MethodPost, path: submitPath, token: app.token(t, owner), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "submit: not enrolled", method: http.MethodPost, path: submitPath, token: app.token(t, outsider), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbiddenMsg("you are not enrolled in this course"))},
		{name: "submit: unknown assignment", method: http.MethodPost, path: "/api/assignments/999/submit", token: studentToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("assignment"))},
	})

	var first assignment.SubmitResult
	t.Run("submit", func(t *testing.T) {
		req, rec := newMultipartRequest(t, http.MethodPost, submitPath, studentToken, nil, "answer.txt", []byte("v1"))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		unmarshal(t, rec, &first)
		assert.True(t, first.Success)
		assert.True(t, first.Created)
		assert.False(t, first.Updated)
		assert.Equal(t, student.ID, first.Submission.StudentID)
		assert.True(t, strings.HasSuffix(first.Submission.FilePath.String, ".txt"))
		assert.False(t, first.Submission.Grade.Valid)
	})

	t.Run("grade", func(t *testing.T) {
		gradePath := fmt.Sprintf("/api/submissions/%d/grade", first.Submission.ID)
		app.run(t, []httpTest{
			{name: "students cannot", method: http.MethodPut, path: gradePath, token: studentToken, body: []byte(`{"grade":"A"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "not the owner", method: http.MethodPut, path: gradePath, token: app.token(t, other), body: []byte(`{"grade":"A"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "unknown submission", method: http.MethodPut, path: "/api/submissions/999/grade", token: app.token(t, owner), body: []byte(`{"grade":"A"}`), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("submission"))},
			{
				name: "grade required", method: http.MethodPut, path: gradePath, token: app.token(t, owner), body: []byte(`{"grade":" "}`), wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, errValidation("invalid input", map[string]string{"grade": "this field is required"})),
			},
		})

		req, rec := newAuthRequest(http.MethodPut, gradePath, app.token(t, owner), []byte(`{"grade":"A-"}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var graded assignment.Submission
		unmarshal(t, rec, &graded)
		assert.Equal(t, "A-", graded.Grade.String)

		notes, err := app.Notifications.List(req.Context(), student.Principal())
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, `Your assignment "Homework" has been graded: A-.`, notes[0].Message)
	})

	t.Run("resubmit keeps the grade", func(t *testing.T) {
		req, rec := newMultipartRequest(t, http.MethodPost, submitPath, studentToken, nil, "answer.txt", []byte("v2"))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res assignment.SubmitResult
		unmarshal(t, rec, &res)
		assert.False(t, res.Created)
		assert.True(t, res.Updated)
		assert.Equal(t, first.Submission.ID, res.Submission.ID)
		assert.Equal(t, "A-", res.Submission.Grade.String)
		assert.NotEqual(t, first.Submission.FilePath.String, res.Submission.FilePath.String)
	})

	t.Run("list submissions", func(t *testing.T) {
		path := fmt.Sprintf("/api/assignments/%d/submissions", a.ID)

		req, rec := newAuthRequest(http.MethodGet, path, app.token(t, other))
		app.serve(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, path, app.token(t, owner))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var subs []assignment.StudentSubmission
		unmarshal(t, rec, &subs)
		require.Len(t, subs, 1)
		assert.Equal(t, "Student", subs[0].StudentName)
		assert.Equal(t, "A-", subs[0].Grade.String)
	})

	t.Run("my submissions", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/my-submissions", studentToken)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var subs []assignment.MySubmission
		unmarshal(t, rec, &subs)
		require.Len(t, subs, 1)
		assert.Equal(t, "Homework", subs[0].AssignmentTitle)
		assert.Equal(t, c.ID, subs[0].CourseID)

		req, rec = newAuthRequest(http.MethodGet, "/api/my-submissions", app.token(t, owner))
		app.serve(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/assignments/%d", a.ID)
		app.run(t, []httpTest{
			{name: "not the owner", method: http.MethodDelete, path: path, token: app.token(t, other), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "owner", method: http.MethodDelete, path: path, token: app.token(t, owner), wantData: marchallObj(t, success)},
			{name: "gone", method: http.MethodDelete, path: path, token: app.token(t, owner), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("assignment"))},
			{name: "submissions gone", method: http.MethodGet, path: "/api/my-submissions", token: studentToken, wantData: marchallList(t)},
		})
	})
}
