package course

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core"
)

type Course struct {
	ID             int64       `db:"id" json:"id"`
	Title          string      `db:"title" json:"title"`
	Description    null.String `db:"description" json:"description"`
	InstructorID   null.Int64  `db:"instructor_id" json:"instructor_id"`
	InstructorName null.String `db:"instructor_name" json:"instructor_name"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"` // UTC
}

type Enrollment struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,singleline"`
	Description string `json:"description" form:"description"`
}

func (nc *NewCourse) Clean() {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
}

// UpdateCourse replaces the editable fields of a Course.
type UpdateCourse struct {
	Title       string `json:"title" form:"title" validate:"required,notblank,singleline"`
	Description string `json:"description" form:"description"`
}

func (uc *UpdateCourse) Clean() {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
}

type QueryFilter struct {
	// Search does a case-insensitive match on the title or the description.
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}
