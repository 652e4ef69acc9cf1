package assignment

import (
	"io"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core"
)

// deadlineLayouts are tried in order; the second one is what HTML datetime-local inputs send.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

type Assignment struct {
	ID          int64       `db:"id" json:"id"`
	CourseID    int64       `db:"course_id" json:"course_id"`
	Title       string      `db:"title" json:"title"`
	Description null.String `db:"description" json:"description"`
	Deadline    null.Time   `db:"deadline" json:"deadline"`
	FilePath    null.String `db:"file_path" json:"file_path"`
	Link        null.String `db:"link" json:"link"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"` // UTC
}

type Submission struct {
	ID           int64       `db:"id" json:"id"`
	AssignmentID int64       `db:"assignment_id" json:"assignment_id"`
	StudentID    int64       `db:"student_id" json:"student_id"`
	FilePath     null.String `db:"file_path" json:"file_path"`
	Grade        null.String `db:"grade" json:"grade"`
	SubmittedAt  time.Time   `db:"submitted_at" json:"submitted_at"` // UTC
}

// StudentSubmission is a Submission as listed to the course instructor.
type StudentSubmission struct {
	Submission
	StudentName string `db:"student_name" json:"student_name"`
}

// MySubmission is a Submission as listed to its author.
type MySubmission struct {
	Submission
	AssignmentTitle string `db:"assignment_title" json:"assignment_title"`
	CourseID        int64  `db:"course_id" json:"course_id"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,singleline"`
	Description string `json:"description" form:"description"`
	Deadline    string `json:"deadline" form:"deadline"`
	Link        string `json:"link" form:"link" validate:"omitempty,httpurl"`
}

func (na *NewAssignment) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Deadline = core.CleanString(na.Deadline)
	na.Link = core.CleanString(na.Link)
}

func (na NewAssignment) deadline() (null.Time, error) {
	if na.Deadline == "" {
		return null.Time{}, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, na.Deadline); err == nil {
			return null.TimeFrom(t.UTC()), nil
		}
	}
	return null.Time{}, core.NewFieldError("deadline", "deadline must be a date or a date-time")
}

type GradeInput struct {
	Grade string `json:"grade" form:"grade" validate:"required,notblank,singleline,max=32"`
}

// Upload is a file attached to a request.
type Upload struct {
	Filename string
	Content  io.Reader
}

type SubmitResult struct {
	Success    bool       `json:"success"`
	Created    bool       `json:"created"`
	Updated    bool       `json:"updated"`
	Submission Submission `json:"submission"`
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
