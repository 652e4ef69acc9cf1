package web

import (
	"html/template"
	"io"
	"time"

	"github.com/pkg/errors"

	appfs "github.com/pujaripavansai28/LMS/fs"
)

const templatesGlob = "templates/web/*.gohtml"

var templates = template.Must(template.New("web").Funcs(template.FuncMap{
	"date":        formatDate,
	"unread":      UnreadCount,
	"answer":      AnswerText,
	"answerField": answerField,
	"inc":         func(i int) int { return i + 1 },
}).ParseFS(appfs.FS, templatesGlob))

// Render writes the whole page for p. It has no side effects besides writing to w.
func Render(w io.Writer, p Page) error {
	name, err := view(p.Data)
	if err != nil {
		return err
	}
	return errors.Wrapf(templates.ExecuteTemplate(w, name, p), "rendering %s", name)
}

func view(data interface{}) (string, error) {
	switch data.(type) {
	case LoginForm:
		return "login", nil
	case RegisterForm:
		return "register", nil
	case StudentDashboard:
		return "student", nil
	case InstructorDashboard:
		return "instructor", nil
	case AdminDashboard:
		return "admin", nil
	default:
		return "", errors.Errorf("no view for %T", data)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
