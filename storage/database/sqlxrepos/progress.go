package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/progress"
)

type progressRepository struct {
	baseRepository
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(exec core.DBExecutor) *progressRepository {
	return &progressRepository{baseRepository{exec: exec}}
}

func (repo progressRepository) CountCourseItems(ctx context.Context, courseID int64, exec ...core.DBExecutor) (int, error) {
	var n int
	q := `SELECT (SELECT COUNT(*) FROM assignments WHERE course_id = ?)
		+ (SELECT COUNT(*) FROM quizzes WHERE course_id = ?)`
	err := get(ctx, repo.getExec(exec), &n, q, courseID, courseID)
	return n, errors.Wrap(err, "counting course items")
}

func (repo progressRepository) CountCompletedItems(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (int, error) {
	var n int
	q := `SELECT (SELECT COUNT(*) FROM submissions s JOIN assignments a ON a.id = s.assignment_id
			WHERE a.course_id = ? AND s.student_id = ?)
		+ (SELECT COUNT(*) FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
			WHERE q.course_id = ? AND qs.student_id = ?)`
	err := get(ctx, repo.getExec(exec), &n, q, courseID, studentID, courseID, studentID)
	return n, errors.Wrap(err, "counting completed items")
}

func (repo progressRepository) StudyMinutes(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) (int, error) {
	var n int
	err := get(ctx, repo.getExec(exec), &n,
		"SELECT COALESCE(SUM(minutes), 0) FROM study_time WHERE student_id = ? AND course_id = ?", studentID, courseID)
	return n, errors.Wrap(err, "summing study time")
}

func (repo progressRepository) AddStudyTime(
	ctx context.Context,
	studentID, courseID int64,
	minutes int,
	at time.Time,
	exec ...core.DBExecutor,
) (int, error) {
	var total int
	q := `INSERT INTO study_time (course_id, student_id, minutes, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (course_id, student_id)
		DO UPDATE SET minutes = study_time.minutes + excluded.minutes, updated_at = excluded.updated_at
		RETURNING minutes`
	err := get(ctx, repo.getExec(exec), &total, q, courseID, studentID, minutes, at.UTC())
	return total, errors.Wrap(err, "upserting study time")
}

func (repo progressRepository) QueryCourseGrades(ctx context.Context, studentID, courseID int64, exec ...core.DBExecutor) ([]progress.GradeEntry, error) {
	ex := repo.getExec(exec)

	grades := make([]progress.GradeEntry, 0)
	q := `SELECT a.title, s.grade FROM submissions s JOIN assignments a ON a.id = s.assignment_id
		WHERE a.course_id = ? AND s.student_id = ? ORDER BY a.id`
	if err := sel(ctx, ex, &grades, q, courseID, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting assignment grades")
	}
	for i := range grades {
		grades[i].Kind = progress.KindAssignment
	}

	var scores []progress.GradeEntry
	q = `SELECT q.title, CAST(qs.score AS TEXT) AS grade FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
		WHERE q.course_id = ? AND qs.student_id = ? ORDER BY q.id`
	if err := sel(ctx, ex, &scores, q, courseID, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting quiz scores")
	}
	for _, s := range scores {
		s.Kind = progress.KindQuiz
		grades = append(grades, s)
	}
	return grades, nil
}

func (repo progressRepository) QueryAssignmentGrades(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]progress.AssignmentGrade, error) {
	grades := make([]progress.AssignmentGrade, 0)
	q := `SELECT a.title AS assignment, s.grade FROM submissions s JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id = ? ORDER BY s.submitted_at DESC, s.id DESC`
	if err := sel(ctx, repo.getExec(exec), &grades, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting assignment grades")
	}
	return grades, nil
}

func (repo progressRepository) QueryQuizScores(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]progress.QuizScore, error) {
	scores := make([]progress.QuizScore, 0)
	q := `SELECT q.title AS quiz, qs.score FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
		WHERE qs.student_id = ? ORDER BY qs.submitted_at DESC, qs.id DESC`
	if err := sel(ctx, repo.getExec(exec), &scores, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting quiz scores")
	}
	return scores, nil
}

func (repo progressRepository) QueryLeaderboard(ctx context.Context, courseID int64, limit int, exec ...core.DBExecutor) ([]progress.LeaderboardEntry, error) {
	entries := make([]progress.LeaderboardEntry, 0)
	q := `SELECT u.name, SUM(qs.score) AS total_score
		FROM quiz_submissions qs
		JOIN quizzes q ON q.id = qs.quiz_id
		JOIN users u ON u.id = qs.student_id
		WHERE q.course_id = ?
		GROUP BY u.id, u.name
		ORDER BY total_score DESC, u.name ASC
		LIMIT ?`
	if err := sel(ctx, repo.getExec(exec), &entries, q, courseID, limit); err != nil {
		return nil, errors.Wrap(err, "selecting leaderboard")
	}
	return entries, nil
}

func (repo progressRepository) QueryCourseCompletions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]progress.CourseCompletion, error) {
	completions := make([]progress.CourseCompletion, 0)
	q := `SELECT c.id AS course_id, c.title,
			(SELECT COUNT(*) FROM assignments a WHERE a.course_id = c.id)
			+ (SELECT COUNT(*) FROM quizzes q WHERE q.course_id = c.id) AS total,
			(SELECT COUNT(*) FROM submissions s JOIN assignments a ON a.id = s.assignment_id
				WHERE a.course_id = c.id AND s.student_id = e.user_id)
			+ (SELECT COUNT(*) FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
				WHERE q.course_id = c.id AND qs.student_id = e.user_id) AS completed
		FROM enrollments e JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = ? ORDER BY c.id`
	if err := sel(ctx, repo.getExec(exec), &completions, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting course completions")
	}
	return completions, nil
}

func (repo progressRepository) QueryPerfectQuizzes(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]progress.PerfectQuiz, error) {
	quizzes := make([]progress.PerfectQuiz, 0)
	q := `SELECT q.id AS quiz_id, q.title FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
		WHERE qs.student_id = ? AND qs.score > 0
			AND qs.score >= (SELECT COUNT(*) FROM questions qn WHERE qn.quiz_id = q.id)
		ORDER BY q.id`
	if err := sel(ctx, repo.getExec(exec), &quizzes, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting perfect quizzes")
	}
	return quizzes, nil
}
