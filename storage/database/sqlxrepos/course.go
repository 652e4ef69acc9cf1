package sqlxrepos

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/course"
	"github.com/pujaripavansai28/LMS/storage/database"
)

const selectCourses = `SELECT c.id, c.title, c.description, c.instructor_id, u.name AS instructor_name, c.created_at
	FROM courses c LEFT JOIN users u ON u.id = c.instructor_id`

type courseRepository struct {
	baseRepository
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor) *courseRepository {
	return &courseRepository{baseRepository{exec: exec}}
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	q := `INSERT INTO courses (title, description, instructor_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`
	if err := get(ctx, repo.getExec(exec), &c.ID, q, c.Title, c.Description, c.InstructorID, c.CreatedAt.UTC()); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id int64, exec ...core.DBExecutor) (course.Course, error) {
	var c course.Course
	if err := get(ctx, repo.getExec(exec), &c, selectCourses+" WHERE c.id = ?", id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "selecting course")
	}
	return c, nil
}

func (repo courseRepository) query(ctx context.Context, exec core.DBExecutor, where string, args ...interface{}) ([]course.Course, error) {
	q := selectCourses
	if where != "" {
		q += " WHERE " + where
	}
	courses := make([]course.Course, 0)
	if err := sel(ctx, exec, &courses, q+" ORDER BY c.id", args...); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	return courses, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter, exec ...core.DBExecutor) ([]course.Course, error) {
	if filter.Search == "" {
		return repo.query(ctx, repo.getExec(exec), "")
	}
	val := "%" + strings.ToLower(filter.Search) + "%"
	return repo.query(ctx, repo.getExec(exec),
		"LOWER(c.title) LIKE ? OR LOWER(COALESCE(c.description, '')) LIKE ?", val, val)
}

func (repo courseRepository) QueryInstructorCourses(ctx context.Context, instructorID int64, exec ...core.DBExecutor) ([]course.Course, error) {
	return repo.query(ctx, repo.getExec(exec), "c.instructor_id = ?", instructorID)
}

func (repo courseRepository) QueryStudentCourses(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]course.Course, error) {
	return repo.query(ctx, repo.getExec(exec),
		"c.id IN (SELECT e.course_id FROM enrollments e WHERE e.user_id = ?)", studentID)
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	err := execOne(ctx, repo.getExec(exec), course.ErrNotFound,
		"UPDATE courses SET title = ?, description = ? WHERE id = ?", c.Title, c.Description, c.ID)
	if err != nil {
		if core.IsNotFound(err) {
			return course.Course{}, err
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return c, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), course.ErrNotFound, "DELETE FROM courses WHERE id = ?", id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting course")
	}
	return err
}

func (repo courseRepository) FillEmptyDescriptions(ctx context.Context, text string, exec ...core.DBExecutor) (int64, error) {
	n, err := execAffected(ctx, repo.getExec(exec),
		"UPDATE courses SET description = ? WHERE description IS NULL OR TRIM(description) = ''", text)
	return n, errors.Wrap(err, "filling course descriptions")
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, e course.Enrollment, exec ...core.DBExecutor) (course.Enrollment, error) {
	q := `INSERT INTO enrollments (user_id, course_id, enrolled_at) VALUES (?, ?, ?) RETURNING id`
	if err := get(ctx, repo.getExec(exec), &e.ID, q, e.UserID, e.CourseID, e.EnrolledAt.UTC()); err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return course.Enrollment{}, course.ErrAlreadyEnrolled
		case database.IsForeignKeyViolation(err):
			return course.Enrollment{}, course.ErrNotFound
		}
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return e, nil
}

func (repo courseRepository) DeleteEnrollment(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) error {
	_, err := execAffected(ctx, repo.getExec(exec),
		"DELETE FROM enrollments WHERE user_id = ? AND course_id = ?", studentID, courseID)
	return errors.Wrap(err, "deleting enrollment")
}

func (repo courseRepository) IsEnrolled(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (bool, error) {
	var n int
	err := get(ctx, repo.getExec(exec), &n,
		"SELECT COUNT(*) FROM enrollments WHERE user_id = ? AND course_id = ?", studentID, courseID)
	if err != nil {
		return false, errors.Wrap(err, "counting enrollments")
	}
	return n > 0, nil
}
