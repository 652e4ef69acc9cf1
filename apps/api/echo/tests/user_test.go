package tests

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/user"
	"github.com/pujaripavansai28/LMS/tests"
)

func Test_userApi_query(t *testing.T) {
	app := newTestApp(t)

	path := func(search, ordering, verified string, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if verified != "" {
			v.Add("verified", verified)
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/api/admin/users?" + v.Encode()
	}

	admin := testutil.CreateUser(t, app.DB, "Admin", "admin@test.io", auth.RoleAdmin)
	teacher := testutil.CreateUser(t, app.DB, "Teacher", "teacher@test.io", auth.RoleInstructor)
	student := testutil.CreateUser(t, app.DB, "Hero", "user3@test.io", auth.RoleStudent)
	naughty := testutil.CreateUser(t, app.DB, "N Dog", "ndog@test.io", auth.RoleStudent)
	_, err := app.DB.Exec(`UPDATE users SET verified = ? WHERE id = ?`, false, naughty.ID)
	require.NoError(t, err)
	naughty.Verified = false

	adminToken := app.token(t, admin)
	empty := marchallList(t)

	tests := []httpTest{
		{name: "Auth required", path: "/api/admin/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Admin required", path: "/api/admin/users", token: app.token(t, teacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "Get all", path: "/api/admin/users", token: adminToken, wantData: marchallList(t, admin, teacher, student, naughty)},
		// filtering
		{name: "search (unknown)", path: path("lol", "", ""), token: adminToken, wantData: empty},
		{name: "search=USER", path: path("USER", "", ""), token: adminToken, wantData: marchallList(t, student)},
		{name: "search=te", path: path("te", "", ""), token: adminToken, wantData: marchallList(t, admin, teacher, student, naughty)},
		{name: "role (unknown)", path: path("", "", "", "lol"), token: adminToken, wantData: empty},
		{name: "role=student", path: path("", "", "", "student"), token: adminToken, wantData: marchallList(t, student, naughty)},
		{name: "role=admin,instructor", path: path("", "", "", "admin", "instructor"), token: adminToken, wantData: marchallList(t, admin, teacher)},
		{name: "verified=false", path: path("", "", "false"), token: adminToken, wantData: marchallList(t, naughty)},
		{
			name: "verified=lol", path: path("", "", "lol"), token: adminToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("verified must be true or false", map[string]string{"verified": "verified must be true or false"})),
		},
		// ordering
		{name: "order by name", path: path("", "name", ""), token: adminToken, wantData: marchallList(t, admin, student, naughty, teacher)},
		{name: "order by -id", path: path("", "-id", ""), token: adminToken, wantData: marchallList(t, naughty, student, teacher, admin)},
		{name: "unknown ordering ignored", path: path("", "password_hash", ""), token: adminToken, wantData: marchallList(t, admin, teacher, student, naughty)},
		// filtering & ordering
		{name: "filtering & ordering", path: path("", "-name", "true", "student"), token: adminToken, wantData: marchallList(t, student)},
	}
	for i := range tests {
		tests[i].method = http.MethodGet
	}
	app.run(t, tests)
}

func Test_userApi_crud(t *testing.T) {
	app := newTestApp(t)
	admin := testutil.CreateUser(t, app.DB, "Admin", "admin@test.io", auth.RoleAdmin)
	student := testutil.CreateUser(t, app.DB, "Hero", "hero@test.io", auth.RoleStudent)
	adminToken := app.token(t, admin)
	studentPath := fmt.Sprintf("/api/admin/users/%d", student.ID)

	tests := []httpTest{
		{name: "retrieve: admin required", method: http.MethodGet, path: studentPath, token: app.token(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "retrieve: unknown", method: http.MethodGet, path: "/api/admin/users/999", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("user"))},
		{name: "retrieve: malformed id", method: http.MethodGet, path: "/api/admin/users/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("user"))},
		{name: "retrieve", method: http.MethodGet, path: studentPath, token: adminToken, wantData: marchallObj(t, student)},
		{
			name: "update: invalid role", method: http.MethodPut, path: studentPath, token: adminToken,
			body: []byte(`{"role":"teacher"}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errValidation("invalid input", map[string]string{"role": "role must be one of admin, instructor or student"})),
		},
		{name: "delete self", method: http.MethodDelete, path: fmt.Sprintf("/api/admin/users/%d", admin.ID), token: adminToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbiddenMsg("you cannot delete your own account"))},
		{name: "delete unknown", method: http.MethodDelete, path: "/api/admin/users/999", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound("user"))},
	}
	app.run(t, tests)

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Name: "Boss", Email: "boss@test.io", Password: "Str0ng#Secret", Role: auth.RoleAdmin})
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/users", adminToken, body)
		app.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created user.User
		unmarshal(t, rec, &created)
		assert.Equal(t, auth.RoleAdmin, created.Role)
		assert.Equal(t, "boss@test.io", created.Email)
	})

	t.Run("partial update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, studentPath, adminToken, []byte(`{"role":"instructor","verified":false}`))
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated user.User
		unmarshal(t, rec, &updated)
		assert.Equal(t, student.ID, updated.ID)
		assert.Equal(t, student.Name, updated.Name)
		assert.Equal(t, student.Email, updated.Email)
		assert.Equal(t, auth.RoleInstructor, updated.Role)
		assert.False(t, updated.Verified)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, studentPath, adminToken)
		app.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, jsonBytesEqual(t, marchallObj(t, success), rec.Body.Bytes()))

		req, rec = newAuthRequest(http.MethodGet, studentPath, adminToken)
		app.serve(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
