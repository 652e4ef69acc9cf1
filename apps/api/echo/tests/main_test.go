package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/pujaripavansai28/LMS/apps/api/echo"
	"github.com/pujaripavansai28/LMS/core/user"
	"github.com/pujaripavansai28/LMS/tests"
)

var (
	errMissingToken = echoapi.ErrorResponse{Code: "missing_token", Error: "No token provided"}
	errInvalidToken = echoapi.ErrorResponse{Code: "invalid_token", Error: "Invalid token"}
	errForbidden    = echoapi.ErrorResponse{Code: "forbidden", Error: "permission denied"}
	success         = echoapi.SuccessResponse{Success: true}
)

func errNotFound(resource string) echoapi.ErrorResponse {
	return echoapi.ErrorResponse{Code: "not_found", Error: resource + " not found"}
}

func errForbiddenMsg(msg string) echoapi.ErrorResponse {
	return echoapi.ErrorResponse{Code: "forbidden", Error: msg}
}

func errConflict(field, msg string) echoapi.ErrorResponse {
	return echoapi.ErrorResponse{Code: "conflict", Error: msg, Fields: map[string]string{field: msg}}
}

func errValidation(msg string, fields map[string]string) echoapi.ErrorResponse {
	return echoapi.ErrorResponse{Code: "validation_error", Error: msg, Fields: fields}
}

type testApp struct {
	*testutil.Services
	server *echoapi.Server
}

func newTestApp(t *testing.T) *testApp {
	svcs := testutil.NewServices(t)
	server := echoapi.NewServer(echoapi.Deps{
		Conf:            svcs.Conf,
		Logger:          svcs.Logger,
		Translator:      svcs.Translator,
		Tokens:          svcs.Tokens,
		Metrics:         svcs.Metrics,
		UploadsDir:      svcs.Files.Dir(),
		UserSvc:         svcs.Users,
		CourseSvc:       svcs.Courses,
		AssignmentSvc:   svcs.Assignments,
		QuizSvc:         svcs.Quizzes,
		ProgressSvc:     svcs.Progress,
		NotificationSvc: svcs.Notifications,
	})
	return &testApp{Services: svcs, server: server}
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	return app.Token(t, usr)
}

func (app *testApp) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	app.server.ServeHTTP(rec, req)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newMultipartRequest sends fields and, when filename is set, a "file" part.
func newMultipartRequest(t *testing.T, method, path, token string, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(): %v", err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = part.Write(content); err != nil {
			t.Fatalf("part.Write(): %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Writer.Close(): %v", err)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) bool {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		t.Errorf("jsonBytesEqual() failed to decode %s: %v", b1, err)
		return false
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		t.Errorf("jsonBytesEqual() failed to decode %s: %v", b2, err)
		return false
	}
	return reflect.DeepEqual(j1, j2)
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "body: %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	if !jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData) {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), tt.wantData)
	}
}
