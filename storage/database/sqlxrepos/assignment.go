package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
)

const (
	assignmentColumns = "id, course_id, title, description, deadline, file_path, link, created_at"
	submissionColumns = "id, assignment_id, student_id, file_path, grade, submitted_at"
)

type assignmentRepository struct {
	baseRepository
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{baseRepository{exec: exec}}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	q := `INSERT INTO assignments (course_id, title, description, deadline, file_path, link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	err := get(ctx, repo.getExec(exec), &a.ID, q,
		a.CourseID, a.Title, a.Description, a.Deadline, a.FilePath, a.Link, a.CreatedAt.UTC())
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := get(ctx, repo.getExec(exec), &a, "SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id)
	if err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "selecting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) QueryCourseAssignments(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]assignment.Assignment, error) {
	as := make([]assignment.Assignment, 0)
	q := "SELECT " + assignmentColumns + " FROM assignments WHERE course_id = ? ORDER BY id"
	if err := sel(ctx, repo.getExec(exec), &as, q, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting assignments")
	}
	return as, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), assignment.ErrNotFound, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting assignment")
	}
	return err
}

func (repo assignmentRepository) GetSubmission(ctx context.Context, id int64, exec ...core.DBExecutor) (assignment.Submission, error) {
	var s assignment.Submission
	err := get(ctx, repo.getExec(exec), &s, "SELECT "+submissionColumns+" FROM submissions WHERE id = ?", id)
	if err != nil {
		return assignment.Submission{}, trapNoRowsErr(err, assignment.ErrSubmissionNotFound, "selecting submission")
	}
	return s, nil
}

func (repo assignmentRepository) UpsertSubmission(ctx context.Context, s assignment.Submission, exec ...core.DBExecutor) (assignment.Submission, bool, error) {
	ex := repo.getExec(exec)
	q := `INSERT INTO submissions (assignment_id, student_id, file_path, submitted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (assignment_id, student_id)
		DO UPDATE SET file_path = excluded.file_path, submitted_at = excluded.submitted_at
		RETURNING id`
	id, created, err := upsert(ctx, ex, q,
		[]interface{}{s.AssignmentID, s.StudentID, s.FilePath, s.SubmittedAt.UTC()},
		"SELECT 1 FROM submissions WHERE assignment_id = ? AND student_id = ?", s.AssignmentID, s.StudentID)
	if err != nil {
		return assignment.Submission{}, false, errors.Wrap(err, "upserting submission")
	}
	// sqlite does not type RETURNING columns, so timestamps are read back with a plain select
	sub, err := repo.GetSubmission(ctx, id, ex)
	return sub, created, err
}

func (repo assignmentRepository) QueryAssignmentSubmissions(ctx context.Context, assignmentID int64, exec ...core.DBExecutor) ([]assignment.StudentSubmission, error) {
	q := `SELECT s.id, s.assignment_id, s.student_id, s.file_path, s.grade, s.submitted_at, u.name AS student_name
		FROM submissions s JOIN users u ON u.id = s.student_id
		WHERE s.assignment_id = ? ORDER BY s.submitted_at DESC, s.id DESC`
	subs := make([]assignment.StudentSubmission, 0)
	if err := sel(ctx, repo.getExec(exec), &subs, q, assignmentID); err != nil {
		return nil, errors.Wrap(err, "selecting assignment submissions")
	}
	return subs, nil
}

func (repo assignmentRepository) QueryStudentSubmissions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]assignment.MySubmission, error) {
	q := `SELECT s.id, s.assignment_id, s.student_id, s.file_path, s.grade, s.submitted_at,
			a.title AS assignment_title, a.course_id
		FROM submissions s JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id = ? ORDER BY s.submitted_at DESC, s.id DESC`
	subs := make([]assignment.MySubmission, 0)
	if err := sel(ctx, repo.getExec(exec), &subs, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting student submissions")
	}
	return subs, nil
}

func (repo assignmentRepository) GradeSubmission(ctx context.Context, id int64, grade string, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), assignment.ErrSubmissionNotFound,
		"UPDATE submissions SET grade = ? WHERE id = ?", grade, id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "grading submission")
	}
	return err
}
