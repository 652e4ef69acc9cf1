package progress

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

const leaderboardSize = 10

var (
	// operation gates
	studentOnly = auth.Require(auth.RoleStudent)
	anyUser     = auth.Require()
)

type (
	Repository interface {
		// CountCourseItems counts the assignments and quizzes of a course.
		CountCourseItems(ctx context.Context, courseID int64, exec ...core.DBExecutor) (int, error)
		// CountCompletedItems counts the student's submissions and quiz submissions in a course.
		CountCompletedItems(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (int, error)
		StudyMinutes(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (int, error)
		// AddStudyTime atomically adds minutes and returns the new total.
		AddStudyTime(ctx context.Context, studentID, courseID int64, minutes int, at time.Time, exec ...core.DBExecutor) (int, error)

		QueryCourseGrades(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) ([]GradeEntry, error)
		QueryAssignmentGrades(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]AssignmentGrade, error)
		QueryQuizScores(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]QuizScore, error)
		QueryLeaderboard(ctx context.Context, courseID int64, limit int, exec ...core.DBExecutor) ([]LeaderboardEntry, error)
		QueryCourseCompletions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]CourseCompletion, error)
		QueryPerfectQuizzes(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]PerfectQuiz, error)
	}

	// Courses is the part of course.Service progress relies on.
	Courses interface {
		Get(ctx context.Context, id int64) (course.Course, error)
		RequireEnrolled(ctx context.Context, p auth.Principal, courseID int64) error
	}

	Service struct {
		repo     Repository
		courses  Courses
		validate *validator.Validate
	}
)

func NewService(repo Repository, courses Courses, validate *validator.Validate) *Service {
	return &Service{repo: repo, courses: courses, validate: validate}
}

// CourseProgress is recomputed from the submissions on every call.
func (svc *Service) CourseProgress(ctx context.Context, p auth.Principal, courseID int64) (Progress, error) {
	if err := studentOnly.Check(p); err != nil {
		return Progress{}, err
	}
	if _, err := svc.courses.Get(ctx, courseID); err != nil {
		return Progress{}, err
	}
	total, err := svc.repo.CountCourseItems(ctx, courseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "counting course items")
	}
	completed, err := svc.repo.CountCompletedItems(ctx, p.ID, courseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "counting completed items")
	}
	minutes, err := svc.repo.StudyMinutes(ctx, p.ID, courseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "reading study time")
	}
	return Progress{
		CourseID:     courseID,
		Percent:      Percent(completed, total),
		Completed:    completed,
		Total:        total,
		StudyMinutes: minutes,
	}, nil
}

// CourseGrades lists the student's assignment grades then quiz scores in a course.
func (svc *Service) CourseGrades(ctx context.Context, p auth.Principal, courseID int64) ([]GradeEntry, error) {
	if err := studentOnly.Check(p); err != nil {
		return nil, err
	}
	if _, err := svc.courses.Get(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourseGrades(ctx, p.ID, courseID)
}

func (svc *Service) Overview(ctx context.Context, p auth.Principal) (Overview, error) {
	if err := studentOnly.Check(p); err != nil {
		return Overview{}, err
	}
	assignments, err := svc.repo.QueryAssignmentGrades(ctx, p.ID)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying assignment grades")
	}
	quizzes, err := svc.repo.QueryQuizScores(ctx, p.ID)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying quiz scores")
	}
	return Overview{Assignments: assignments, Quizzes: quizzes}, nil
}

// Leaderboard ranks the students of a course by total quiz score.
func (svc *Service) Leaderboard(ctx context.Context, p auth.Principal, courseID int64) ([]LeaderboardEntry, error) {
	if err := anyUser.Check(p); err != nil {
		return nil, err
	}
	if _, err := svc.courses.Get(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryLeaderboard(ctx, courseID, leaderboardSize)
}

// RecordStudyTime adds a study session to the student's total for the course.
func (svc *Service) RecordStudyTime(ctx context.Context, p auth.Principal, courseID int64, in TimeInput) (StudyTime, error) {
	if err := studentOnly.Check(p); err != nil {
		return StudyTime{}, err
	}
	if err := svc.validate.Struct(in); err != nil {
		return StudyTime{}, err
	}
	if _, err := svc.courses.Get(ctx, courseID); err != nil {
		return StudyTime{}, err
	}
	if err := svc.courses.RequireEnrolled(ctx, p, courseID); err != nil {
		return StudyTime{}, err
	}
	total, err := svc.repo.AddStudyTime(ctx, p.ID, courseID, in.Minutes, time.Now().UTC())
	if err != nil {
		return StudyTime{}, errors.Wrap(err, "adding study time")
	}
	return StudyTime{CourseID: courseID, Minutes: total}, nil
}

// Badges are derived from completed courses and perfect quiz scores; staff have none.
func (svc *Service) Badges(ctx context.Context, p auth.Principal) ([]Badge, error) {
	if err := anyUser.Check(p); err != nil {
		return nil, err
	}
	badges := make([]Badge, 0)
	if !p.IsStudent() {
		return badges, nil
	}

	completions, err := svc.repo.QueryCourseCompletions(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying course completions")
	}
	for _, c := range completions {
		if Percent(c.Completed, c.Total) == 100 {
			badges = append(badges, Badge{
				Name:        BadgeCourseFinisher,
				Description: fmt.Sprintf(`Completed "%s"!`, c.Title),
			})
		}
	}

	perfect, err := svc.repo.QueryPerfectQuizzes(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying perfect quizzes")
	}
	for _, q := range perfect {
		badges = append(badges, Badge{
			Name:        BadgeQuizAce,
			Description: fmt.Sprintf(`Full marks on "%s".`, q.Title),
		})
	}
	return badges, nil
}
