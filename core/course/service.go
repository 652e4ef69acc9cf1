package course

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
)

// DefaultDescription is what the admin CLI writes into courses created without a description.
const DefaultDescription = "This course helps you master the subject with hands-on lessons, assignments and quizzes."

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("course")
	ErrAlreadyEnrolled = core.NewConflictError("course_id", "Already enrolled in this course")
	ErrNotEnrolled     = core.NewForbiddenError("you are not enrolled in this course")
	ErrNoCourses       = core.NewForbiddenError("admins do not have personal courses")

	// operation gates
	createCourse = auth.Require(auth.RoleInstructor, auth.RoleAdmin)
	manageCourse = auth.RequireOwner(auth.RoleInstructor, auth.RoleAdmin)
	studentOnly  = auth.Require(auth.RoleStudent)
	anyUser      = auth.Require()
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		GetCourse(ctx context.Context, id int64, exec ...core.DBExecutor) (Course, error)
		QueryCourses(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Course, error)
		QueryInstructorCourses(ctx context.Context, instructorID int64, exec ...core.DBExecutor) ([]Course, error)
		QueryStudentCourses(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		DeleteCourse(ctx context.Context, id int64, exec ...core.DBExecutor) error
		FillEmptyDescriptions(ctx context.Context, text string, exec ...core.DBExecutor) (int64, error)

		// CreateEnrollment returns ErrAlreadyEnrolled when the pair exists.
		CreateEnrollment(ctx context.Context, e Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) error
		IsEnrolled(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, p auth.Principal, nc NewCourse) (Course, error) {
	if err := createCourse.Check(p); err != nil {
		return Course{}, err
	}
	nc.Clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Course{}, err
	}
	c, err := svc.repo.CreateCourse(ctx, Course{
		Title:        nc.Title,
		Description:  nullString(nc.Description),
		InstructorID: null.Int64From(p.ID),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return svc.repo.GetCourse(ctx, c.ID)
}

// List is public.
func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryCourses(ctx, filter)
}

// Get is public.
func (svc *Service) Get(ctx context.Context, id int64) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) Update(ctx context.Context, p auth.Principal, id int64, uc UpdateCourse) (Course, error) {
	c, err := svc.Authorize(ctx, p, id, manageCourse)
	if err != nil {
		return Course{}, err
	}
	uc.Clean()
	if err = svc.validate.Struct(uc); err != nil {
		return Course{}, err
	}
	c.Title = uc.Title
	c.Description = nullString(uc.Description)
	if _, err = svc.repo.UpdateCourse(ctx, c); err != nil {
		return Course{}, errors.Wrap(err, "updating course")
	}
	return svc.repo.GetCourse(ctx, id)
}

// Delete removes the course along with its enrollments, assignments and quizzes.
func (svc *Service) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if _, err := svc.Authorize(ctx, p, id, manageCourse); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

// Enroll relies on the (user_id, course_id) uniqueness constraint: concurrent attempts yield one row.
func (svc *Service) Enroll(ctx context.Context, p auth.Principal, id int64) (Enrollment, error) {
	if err := studentOnly.Check(p); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetCourse(ctx, id); err != nil {
		return Enrollment{}, err
	}
	return svc.repo.CreateEnrollment(ctx, Enrollment{
		UserID:     p.ID,
		CourseID:   id,
		EnrolledAt: time.Now().UTC(),
	})
}

// Unenroll is idempotent.
func (svc *Service) Unenroll(ctx context.Context, p auth.Principal, id int64) error {
	if err := studentOnly.Check(p); err != nil {
		return err
	}
	return svc.repo.DeleteEnrollment(ctx, p.ID, id)
}

// MyCourses returns the courses an instructor owns or a student is enrolled in.
func (svc *Service) MyCourses(ctx context.Context, p auth.Principal) ([]Course, error) {
	if err := anyUser.Check(p); err != nil {
		return nil, err
	}
	switch p.Role {
	case auth.RoleInstructor:
		return svc.repo.QueryInstructorCourses(ctx, p.ID)
	case auth.RoleStudent:
		return svc.repo.QueryStudentCourses(ctx, p.ID)
	default:
		return nil, ErrNoCourses
	}
}

// Authorize fetches the course and runs req against its owner.
func (svc *Service) Authorize(ctx context.Context, p auth.Principal, id int64, req auth.Requirement) (Course, error) {
	if err := req.Check(p); err != nil {
		return Course{}, err
	}
	c, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if err = req.CheckOwner(p, c.InstructorID); err != nil {
		return Course{}, err
	}
	return c, nil
}

// Access admits admins, the owning instructor and enrolled students.
func (svc *Service) Access(ctx context.Context, p auth.Principal, id int64) (Course, error) {
	c, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	switch p.Role {
	case auth.RoleAdmin:
		return c, nil
	case auth.RoleInstructor:
		if err = manageCourse.CheckOwner(p, c.InstructorID); err != nil {
			return Course{}, err
		}
		return c, nil
	case auth.RoleStudent:
		if err = svc.RequireEnrolled(ctx, p, id); err != nil {
			return Course{}, err
		}
		return c, nil
	default:
		return Course{}, core.NewForbiddenError("")
	}
}

// RequireEnrolled fails with ErrNotEnrolled unless p is enrolled in the course.
func (svc *Service) RequireEnrolled(ctx context.Context, p auth.Principal, courseID int64) error {
	ok, err := svc.repo.IsEnrolled(ctx, p.ID, courseID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if !ok {
		return ErrNotEnrolled
	}
	return nil
}

// FillDescriptions sets text on every course without a description; used by the admin CLI.
func (svc *Service) FillDescriptions(ctx context.Context, text string) (int64, error) {
	text = core.CleanString(text)
	if text == "" {
		text = DefaultDescription
	}
	return svc.repo.FillEmptyDescriptions(ctx, text)
}

// Owner returns the instructor_id of the course, invalid when the course is orphaned.
func (svc *Service) Owner(ctx context.Context, id int64) (null.Int64, error) {
	c, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return null.Int64{}, err
	}
	return c.InstructorID, nil
}
