package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("assignment")
	ErrSubmissionNotFound = core.NewNotFoundError("submission")

	// operation gates
	manageAssignments = auth.RequireOwner(auth.RoleInstructor, auth.RoleAdmin)
	studentOnly       = auth.Require(auth.RoleStudent)
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		GetAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) (Assignment, error)
		QueryCourseAssignments(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]Assignment, error)
		DeleteAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) error

		GetSubmission(ctx context.Context, id int64, exec ...core.DBExecutor) (Submission, error)
		// UpsertSubmission replaces the file of an existing submission and keeps its grade.
		// The returned bool reports whether the submission was created.
		UpsertSubmission(ctx context.Context, s Submission, exec ...core.DBExecutor) (Submission, bool, error)
		QueryAssignmentSubmissions(ctx context.Context, assignmentID int64, exec ...core.DBExecutor) ([]StudentSubmission, error)
		QueryStudentSubmissions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]MySubmission, error)
		GradeSubmission(ctx context.Context, id int64, grade string, exec ...core.DBExecutor) error
	}

	// Courses is the part of course.Service assignments rely on.
	Courses interface {
		Authorize(ctx context.Context, p auth.Principal, id int64, req auth.Requirement) (course.Course, error)
		Access(ctx context.Context, p auth.Principal, id int64) (course.Course, error)
		RequireEnrolled(ctx context.Context, p auth.Principal, courseID int64) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		courses  Courses
		files    core.FileStore
		notifier core.Notifier
		validate *validator.Validate
	}
)

func NewService(
	db core.DB,
	repo Repository,
	courses Courses,
	files core.FileStore,
	notifier core.Notifier,
	validate *validator.Validate,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		courses:  courses,
		files:    files,
		notifier: notifier,
		validate: validate,
	}
}

// Create adds an assignment to a course the caller owns and notifies its students.
func (svc *Service) Create(ctx context.Context, p auth.Principal, courseID int64, na NewAssignment, upload *Upload) (Assignment, error) {
	if _, err := svc.courses.Authorize(ctx, p, courseID, manageAssignments); err != nil {
		return Assignment{}, err
	}
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Assignment{}, err
	}
	deadline, err := na.deadline()
	if err != nil {
		return Assignment{}, err
	}

	a := Assignment{
		CourseID:    courseID,
		Title:       na.Title,
		Description: nullString(na.Description),
		Deadline:    deadline,
		Link:        nullString(na.Link),
		CreatedAt:   time.Now().UTC(),
	}
	if upload != nil {
		path, err := svc.files.Save(ctx, upload.Filename, upload.Content)
		if err != nil {
			return Assignment{}, errors.Wrap(err, "saving assignment file")
		}
		a.FilePath = nullString(path)
	}

	if a, err = svc.repo.CreateAssignment(ctx, a); err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}

	svc.notifier.NotifyCourse(ctx, courseID, fmt.Sprintf(`New assignment "%s" added to your course.`, a.Title))
	return a, nil
}

func (svc *Service) ListForCourse(ctx context.Context, p auth.Principal, courseID int64) ([]Assignment, error) {
	if _, err := svc.courses.Access(ctx, p, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourseAssignments(ctx, courseID)
}

// Submit creates or replaces the caller's submission; a resubmission keeps the existing grade.
func (svc *Service) Submit(ctx context.Context, p auth.Principal, assignmentID int64, upload *Upload) (SubmitResult, error) {
	if err := studentOnly.Check(p); err != nil {
		return SubmitResult{}, err
	}
	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return SubmitResult{}, err
	}
	if err = svc.courses.RequireEnrolled(ctx, p, a.CourseID); err != nil {
		return SubmitResult{}, err
	}

	sub := Submission{
		AssignmentID: assignmentID,
		StudentID:    p.ID,
		SubmittedAt:  time.Now().UTC(),
	}
	if upload != nil {
		path, err := svc.files.Save(ctx, upload.Filename, upload.Content)
		if err != nil {
			return SubmitResult{}, errors.Wrap(err, "saving submission file")
		}
		sub.FilePath = nullString(path)
	}

	var created bool
	err = core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		sub, created, err = svc.repo.UpsertSubmission(ctx, sub, tx)
		return errors.Wrap(err, "upserting submission")
	})
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Success: true, Created: created, Updated: !created, Submission: sub}, nil
}

func (svc *Service) ListSubmissions(ctx context.Context, p auth.Principal, assignmentID int64) ([]StudentSubmission, error) {
	if err := manageAssignments.Check(p); err != nil {
		return nil, err
	}
	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err = svc.courses.Authorize(ctx, p, a.CourseID, manageAssignments); err != nil {
		return nil, err
	}
	return svc.repo.QueryAssignmentSubmissions(ctx, assignmentID)
}

// Grade overwrites the grade of a submission and notifies its author.
func (svc *Service) Grade(ctx context.Context, p auth.Principal, submissionID int64, in GradeInput) (Submission, error) {
	if err := manageAssignments.Check(p); err != nil {
		return Submission{}, err
	}
	in.Grade = core.CleanString(in.Grade)
	if err := svc.validate.Struct(in); err != nil {
		return Submission{}, err
	}
	sub, err := svc.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	a, err := svc.repo.GetAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "finding submission assignment")
	}
	if _, err = svc.courses.Authorize(ctx, p, a.CourseID, manageAssignments); err != nil {
		return Submission{}, err
	}

	if err = svc.repo.GradeSubmission(ctx, submissionID, in.Grade); err != nil {
		return Submission{}, errors.Wrap(err, "grading submission")
	}
	sub.Grade = nullString(in.Grade)

	svc.notifier.NotifyUser(ctx, sub.StudentID, fmt.Sprintf(`Your assignment "%s" has been graded: %s.`, a.Title, in.Grade))
	return sub, nil
}

// Delete removes the assignment and its submissions.
func (svc *Service) Delete(ctx context.Context, p auth.Principal, assignmentID int64) error {
	if err := manageAssignments.Check(p); err != nil {
		return err
	}
	a, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if _, err = svc.courses.Authorize(ctx, p, a.CourseID, manageAssignments); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, assignmentID)
}

func (svc *Service) MySubmissions(ctx context.Context, p auth.Principal) ([]MySubmission, error) {
	if err := studentOnly.Check(p); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentSubmissions(ctx, p.ID)
}
