package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/pujaripavansai28/LMS/apps/api/echo"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/user"
	"github.com/pujaripavansai28/LMS/tests"
)

func Test_authApi_register(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.DB, "Taken", "taken@test.io", auth.RoleStudent)

	tests := []httpTest{
		{
			name: "required fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{
				"name":     "this field is required",
				"email":    "this field is required",
				"password": "this field is required",
				"role":     "this field is required",
			})),
		},
		{
			name: "weak password", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "Bob", Email: "bob@test.io", Password: "short", Role: auth.RoleStudent}),
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{
				"password": "password must contain at least 8 characters",
			})),
		},
		{
			name: "admin signup rejected", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Name: "Bob", Email: "bob@test.io", Password: "Str0ng#Secret", Role: auth.RoleAdmin}),
			wantData: marchallObj(t, errValidation("role must be one of instructor or student", map[string]string{
				"role": "role must be one of instructor or student",
			})),
		},
		{
			name: "email taken", wantCode: http.StatusConflict,
			body: marchallObj(t, user.NewUser{Name: "Bob", Email: "TAKEN@test.io", Password: "Str0ng#Secret", Role: auth.RoleStudent}),
			wantData: marchallObj(t, echoapi.ErrorResponse{
				Code: "conflict", Error: "Email already exists", Fields: map[string]string{"email": "Email already exists"},
			}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/auth/register"
	}
	app.run(t, tests)

	t.Run("registered", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Name: " Bob ", Email: "Bob@Test.io", Password: "Str0ng#Secret", Role: auth.RoleInstructor})
		req, rec := newRequest(http.MethodPost, "/api/auth/register", body)
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp echoapi.AuthResponse
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "Bob", resp.User.Name)
		assert.Equal(t, "bob@test.io", resp.User.Email)
		assert.Equal(t, auth.RoleInstructor, resp.User.Role)
		assert.True(t, resp.User.Verified)

		p, err := app.Tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, p.ID)
		assert.Equal(t, auth.RoleInstructor, p.Role)
	})
}

func Test_authApi_login(t *testing.T) {
	app := newTestApp(t)
	usr := testutil.CreateUser(t, app.DB, "Ada", "ada@test.io", auth.RoleStudent)
	errCreds := echoapi.ErrorResponse{Code: "invalid_credentials", Error: "Invalid credentials"}

	tests := []httpTest{
		{
			name: "required fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
			})),
		},
		{
			name: "unknown email", wantCode: http.StatusBadRequest, wantData: marchallObj(t, errCreds),
			body: marchallObj(t, user.Credentials{Email: "nobody@test.io", Password: testutil.DefaultPassword}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest, wantData: marchallObj(t, errCreds),
			body: marchallObj(t, user.Credentials{Email: usr.Email, Password: "wrong"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/api/auth/login"
	}
	app.run(t, tests)

	t.Run("logged in", func(t *testing.T) {
		body := marchallObj(t, user.Credentials{Email: "ADA@test.io", Password: testutil.DefaultPassword})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.AuthResponse
		unmarshal(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, jsonBytesEqual(t, marchallObj(t, usr), marchallObj(t, resp.User)))
	})
}

func Test_authApi_me(t *testing.T) {
	app := newTestApp(t)
	usr := testutil.CreateUser(t, app.DB, "Ada", "ada@test.io", auth.RoleStudent)
	gone := testutil.CreateUser(t, app.DB, "Gone", "gone@test.io", auth.RoleStudent)
	goneToken := app.token(t, gone)
	_, err := app.DB.Exec(`DELETE FROM users WHERE id = ?`, gone.ID)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Invalid token", token: "not-a-token", wantCode: http.StatusForbidden, wantData: marchallObj(t, errInvalidToken)},
		{name: "Deleted user", token: goneToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("user"))},
		{name: "Current user", token: app.token(t, usr), wantData: marchallObj(t, usr)},
	}
	for i := range tests {
		tests[i].method = http.MethodGet
		tests[i].path = "/api/auth/me"
	}
	app.run(t, tests)
}

func Test_health(t *testing.T) {
	app := newTestApp(t)

	req, rec := newRequest(http.MethodGet, "/health")
	app.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	req, rec = newRequest(http.MethodGet, "/")
	app.serve(req, rec)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app", rec.Header().Get("Location"))
}

func Test_metrics(t *testing.T) {
	app := newTestApp(t)

	req, rec := newRequest(http.MethodGet, "/api/courses")
	app.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lms_http_requests_total{method="GET",route="/api/courses",status="200"} 1`)
}
