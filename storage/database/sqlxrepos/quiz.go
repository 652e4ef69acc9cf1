package sqlxrepos

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/quiz"
)

const (
	quizColumns           = "id, course_id, title, created_at"
	questionColumns       = "id, quiz_id, question_text, question_type, options, answer"
	quizSubmissionColumns = "id, quiz_id, student_id, answers, score, submitted_at"
)

// questionRow is a question as stored: options are a JSON list.
type questionRow struct {
	ID           int64          `db:"id"`
	QuizID       int64          `db:"quiz_id"`
	QuestionText string         `db:"question_text"`
	QuestionType string         `db:"question_type"`
	Options      types.JSONText `db:"options"`
	Answer       string         `db:"answer"`
}

func (row questionRow) question() (quiz.Question, error) {
	opts := make([]string, 0)
	if len(row.Options) > 0 {
		if err := row.Options.Unmarshal(&opts); err != nil {
			return quiz.Question{}, errors.Wrapf(err, "decoding options of question %d", row.ID)
		}
		if opts == nil {
			opts = []string{}
		}
	}
	return quiz.Question{
		ID:           row.ID,
		QuizID:       row.QuizID,
		QuestionText: row.QuestionText,
		QuestionType: row.QuestionType,
		Options:      opts,
		Answer:       row.Answer,
	}, nil
}

type quizRepository struct {
	baseRepository
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(exec core.DBExecutor) *quizRepository {
	return &quizRepository{baseRepository{exec: exec}}
}

func (repo quizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz, exec ...core.DBExecutor) (quiz.Quiz, error) {
	stmt := `INSERT INTO quizzes (course_id, title, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := get(ctx, repo.getExec(exec), &q.ID, stmt, q.CourseID, q.Title, q.CreatedAt.UTC()); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return q, nil
}

func (repo quizRepository) GetQuiz(ctx context.Context, id int64, exec ...core.DBExecutor) (quiz.Quiz, error) {
	var q quiz.Quiz
	if err := get(ctx, repo.getExec(exec), &q, "SELECT "+quizColumns+" FROM quizzes WHERE id = ?", id); err != nil {
		return quiz.Quiz{}, trapNoRowsErr(err, quiz.ErrNotFound, "selecting quiz")
	}
	return q, nil
}

func (repo quizRepository) QueryCourseQuizzes(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]quiz.Quiz, error) {
	qs := make([]quiz.Quiz, 0)
	stmt := "SELECT " + quizColumns + " FROM quizzes WHERE course_id = ? ORDER BY id"
	if err := sel(ctx, repo.getExec(exec), &qs, stmt, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting quizzes")
	}
	return qs, nil
}

func (repo quizRepository) DeleteQuiz(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), quiz.ErrNotFound, "DELETE FROM quizzes WHERE id = ?", id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "deleting quiz")
	}
	return err
}

func (repo quizRepository) CreateQuestion(ctx context.Context, q quiz.Question, exec ...core.DBExecutor) (quiz.Question, error) {
	if q.Options == nil {
		q.Options = []string{}
	}
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return quiz.Question{}, errors.Wrap(err, "encoding options")
	}
	stmt := `INSERT INTO questions (quiz_id, question_text, question_type, options, answer)
		VALUES (?, ?, ?, ?, ?) RETURNING id`
	err = get(ctx, repo.getExec(exec), &q.ID, stmt, q.QuizID, q.QuestionText, q.QuestionType, string(opts), q.Answer)
	if err != nil {
		return quiz.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo quizRepository) QueryQuizQuestions(ctx context.Context, quizID int64, exec ...core.DBExecutor) ([]quiz.Question, error) {
	var rows []questionRow
	stmt := "SELECT " + questionColumns + " FROM questions WHERE quiz_id = ? ORDER BY id"
	if err := sel(ctx, repo.getExec(exec), &rows, stmt, quizID); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	questions := make([]quiz.Question, 0, len(rows))
	for _, row := range rows {
		q, err := row.question()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo quizRepository) GetQuizSubmission(ctx context.Context, id int64, exec ...core.DBExecutor) (quiz.QuizSubmission, error) {
	var s quiz.QuizSubmission
	stmt := "SELECT " + quizSubmissionColumns + " FROM quiz_submissions WHERE id = ?"
	if err := get(ctx, repo.getExec(exec), &s, stmt, id); err != nil {
		return quiz.QuizSubmission{}, trapNoRowsErr(err, quiz.ErrSubmissionNotFound, "selecting quiz submission")
	}
	return s, nil
}

func (repo quizRepository) FindQuizSubmission(ctx context.Context, quizID, studentID int64, exec ...core.DBExecutor) (quiz.QuizSubmission, error) {
	var s quiz.QuizSubmission
	stmt := "SELECT " + quizSubmissionColumns + " FROM quiz_submissions WHERE quiz_id = ? AND student_id = ?"
	if err := get(ctx, repo.getExec(exec), &s, stmt, quizID, studentID); err != nil {
		return quiz.QuizSubmission{}, trapNoRowsErr(err, quiz.ErrSubmissionNotFound, "selecting quiz submission")
	}
	return s, nil
}

func (repo quizRepository) UpsertQuizSubmission(ctx context.Context, s quiz.QuizSubmission, exec ...core.DBExecutor) (quiz.QuizSubmission, bool, error) {
	ex := repo.getExec(exec)
	answers := string(s.Answers)
	if answers == "" {
		answers = "{}"
	}
	stmt := `INSERT INTO quiz_submissions (quiz_id, student_id, answers, score, submitted_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (quiz_id, student_id)
		DO UPDATE SET answers = excluded.answers, score = excluded.score, submitted_at = excluded.submitted_at
		RETURNING id`
	id, created, err := upsert(ctx, ex, stmt,
		[]interface{}{s.QuizID, s.StudentID, answers, s.Score, s.SubmittedAt.UTC()},
		"SELECT 1 FROM quiz_submissions WHERE quiz_id = ? AND student_id = ?", s.QuizID, s.StudentID)
	if err != nil {
		return quiz.QuizSubmission{}, false, errors.Wrap(err, "upserting quiz submission")
	}
	sub, err := repo.GetQuizSubmission(ctx, id, ex)
	return sub, created, err
}

func (repo quizRepository) QueryQuizSubmissions(ctx context.Context, quizID int64, exec ...core.DBExecutor) ([]quiz.StudentQuizSubmission, error) {
	stmt := `SELECT qs.id, qs.quiz_id, qs.student_id, qs.answers, qs.score, qs.submitted_at, u.name AS student_name
		FROM quiz_submissions qs JOIN users u ON u.id = qs.student_id
		WHERE qs.quiz_id = ? ORDER BY qs.score DESC, qs.submitted_at ASC, qs.id ASC`
	subs := make([]quiz.StudentQuizSubmission, 0)
	if err := sel(ctx, repo.getExec(exec), &subs, stmt, quizID); err != nil {
		return nil, errors.Wrap(err, "selecting quiz submissions")
	}
	return subs, nil
}

func (repo quizRepository) QueryStudentQuizSubmissions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]quiz.MyQuizSubmission, error) {
	stmt := `SELECT qs.id, qs.quiz_id, qs.student_id, qs.answers, qs.score, qs.submitted_at,
			q.title AS quiz_title, q.course_id
		FROM quiz_submissions qs JOIN quizzes q ON q.id = qs.quiz_id
		WHERE qs.student_id = ? ORDER BY qs.submitted_at DESC, qs.id DESC`
	subs := make([]quiz.MyQuizSubmission, 0)
	if err := sel(ctx, repo.getExec(exec), &subs, stmt, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting student quiz submissions")
	}
	return subs, nil
}

func (repo quizRepository) SetQuizScore(ctx context.Context, id int64, score int, exec ...core.DBExecutor) error {
	err := execOne(ctx, repo.getExec(exec), quiz.ErrSubmissionNotFound,
		"UPDATE quiz_submissions SET score = ? WHERE id = ?", score, id)
	if err != nil && !core.IsNotFound(err) {
		return errors.Wrap(err, "setting quiz score")
	}
	return err
}
