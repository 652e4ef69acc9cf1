package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/auth"
	"github.com/pujaripavansai28/LMS/core/course"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("quiz")
	ErrSubmissionNotFound = core.NewNotFoundError("quiz submission")
	ErrNoSubmission       = core.NewNotFoundMessage("quiz submission", "No submission found for this student.")

	// operation gates
	manageQuizzes = auth.RequireOwner(auth.RoleInstructor, auth.RoleAdmin)
	studentOnly   = auth.Require(auth.RoleStudent)
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, q Quiz, exec ...core.DBExecutor) (Quiz, error)
		GetQuiz(ctx context.Context, id int64, exec ...core.DBExecutor) (Quiz, error)
		QueryCourseQuizzes(ctx context.Context, courseID int64, exec ...core.DBExecutor) ([]Quiz, error)
		DeleteQuiz(ctx context.Context, id int64, exec ...core.DBExecutor) error

		CreateQuestion(ctx context.Context, q Question, exec ...core.DBExecutor) (Question, error)
		// QueryQuizQuestions returns the questions in creation order.
		QueryQuizQuestions(ctx context.Context, quizID int64, exec ...core.DBExecutor) ([]Question, error)

		GetQuizSubmission(ctx context.Context, id int64, exec ...core.DBExecutor) (QuizSubmission, error)
		FindQuizSubmission(ctx context.Context, quizID, studentID int64, exec ...core.DBExecutor) (QuizSubmission, error)
		// UpsertQuizSubmission replaces answers, score and submission time of an existing submission.
		// The returned bool reports whether the submission was created.
		UpsertQuizSubmission(ctx context.Context, s QuizSubmission, exec ...core.DBExecutor) (QuizSubmission, bool, error)
		QueryQuizSubmissions(ctx context.Context, quizID int64, exec ...core.DBExecutor) ([]StudentQuizSubmission, error)
		QueryStudentQuizSubmissions(ctx context.Context, studentID int64, exec ...core.DBExecutor) ([]MyQuizSubmission, error)
		SetQuizScore(ctx context.Context, id int64, score int, exec ...core.DBExecutor) error
	}

	// Courses is the part of course.Service quizzes rely on.
	Courses interface {
		Authorize(ctx context.Context, p auth.Principal, id int64, req auth.Requirement) (course.Course, error)
		Access(ctx context.Context, p auth.Principal, id int64) (course.Course, error)
		RequireEnrolled(ctx context.Context, p auth.Principal, courseID int64) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		courses  Courses
		notifier core.Notifier
		validate *validator.Validate
	}
)

func NewService(db core.DB, repo Repository, courses Courses, notifier core.Notifier, validate *validator.Validate) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		courses:  courses,
		notifier: notifier,
		validate: validate,
	}
}

func (svc *Service) Create(ctx context.Context, p auth.Principal, courseID int64, nq NewQuiz) (Quiz, error) {
	if _, err := svc.courses.Authorize(ctx, p, courseID, manageQuizzes); err != nil {
		return Quiz{}, err
	}
	nq.Title = core.CleanString(nq.Title)
	if err := svc.validate.Struct(nq); err != nil {
		return Quiz{}, err
	}
	q, err := svc.repo.CreateQuiz(ctx, Quiz{CourseID: courseID, Title: nq.Title, CreatedAt: time.Now().UTC()})
	return q, errors.Wrap(err, "creating quiz")
}

func (svc *Service) ListForCourse(ctx context.Context, p auth.Principal, courseID int64) ([]Quiz, error) {
	if _, err := svc.courses.Access(ctx, p, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourseQuizzes(ctx, courseID)
}

// authorizeQuiz loads the quiz and runs req against the owner of its course.
func (svc *Service) authorizeQuiz(ctx context.Context, p auth.Principal, quizID int64, req auth.Requirement) (Quiz, error) {
	if err := req.Check(p); err != nil {
		return Quiz{}, err
	}
	q, err := svc.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if _, err = svc.courses.Authorize(ctx, p, q.CourseID, req); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (svc *Service) AddQuestion(ctx context.Context, p auth.Principal, quizID int64, nq NewQuestion) (Question, error) {
	if _, err := svc.authorizeQuiz(ctx, p, quizID, manageQuizzes); err != nil {
		return Question{}, err
	}
	nq.Clean()
	if err := svc.validate.Struct(nq); err != nil {
		return Question{}, err
	}
	q, err := svc.repo.CreateQuestion(ctx, Question{
		QuizID:       quizID,
		QuestionText: nq.QuestionText,
		QuestionType: nq.QuestionType,
		Options:      nq.Options,
		Answer:       nq.Answer,
	})
	return q, errors.Wrap(err, "creating question")
}

// ListQuestions withholds the answers from students.
func (svc *Service) ListQuestions(ctx context.Context, p auth.Principal, quizID int64) ([]Question, error) {
	q, err := svc.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if _, err = svc.courses.Access(ctx, p, q.CourseID); err != nil {
		return nil, err
	}
	questions, err := svc.repo.QueryQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	if p.IsStudent() {
		for i := range questions {
			questions[i].Answer = ""
		}
	}
	return questions, nil
}

// Submit scores the answers and stores them; a resubmission replaces the previous one.
func (svc *Service) Submit(ctx context.Context, p auth.Principal, quizID int64, in SubmitInput) (SubmitResult, error) {
	if err := studentOnly.Check(p); err != nil {
		return SubmitResult{}, err
	}
	q, err := svc.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return SubmitResult{}, err
	}
	if err = svc.courses.RequireEnrolled(ctx, p, q.CourseID); err != nil {
		return SubmitResult{}, err
	}
	if in.Answers == nil {
		in.Answers = map[string]interface{}{}
	}
	answers, err := json.Marshal(in.Answers)
	if err != nil {
		return SubmitResult{}, core.NewFieldError("answers", "answers must be an object keyed by question id")
	}

	var res SubmitResult
	err = core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		questions, err := svc.repo.QueryQuizQuestions(ctx, quizID, tx)
		if err != nil {
			return errors.Wrap(err, "querying questions")
		}
		res.Score = Score(questions, in.Answers)
		res.Total = len(questions)

		res.Submission, res.Created, err = svc.repo.UpsertQuizSubmission(ctx, QuizSubmission{
			QuizID:      quizID,
			StudentID:   p.ID,
			Answers:     types.JSONText(answers),
			Score:       res.Score,
			SubmittedAt: time.Now().UTC(),
		}, tx)
		return errors.Wrap(err, "upserting quiz submission")
	})
	if err != nil {
		return SubmitResult{}, err
	}
	res.Success = true
	res.Updated = !res.Created
	return res, nil
}

// Review shows a student their answers next to the expected ones, once they have submitted.
func (svc *Service) Review(ctx context.Context, p auth.Principal, quizID int64) (Review, error) {
	if err := studentOnly.Check(p); err != nil {
		return Review{}, err
	}
	q, err := svc.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return Review{}, err
	}
	sub, err := svc.repo.FindQuizSubmission(ctx, quizID, p.ID)
	if err != nil {
		if core.IsNotFound(err) {
			return Review{}, ErrNoSubmission
		}
		return Review{}, errors.Wrap(err, "finding quiz submission")
	}
	questions, err := svc.repo.QueryQuizQuestions(ctx, quizID)
	if err != nil {
		return Review{}, errors.Wrap(err, "querying questions")
	}

	var answers map[string]interface{}
	if err = sub.Answers.Unmarshal(&answers); err != nil {
		return Review{}, errors.Wrap(err, "decoding answers")
	}

	review := Review{
		Quiz:        q,
		Score:       sub.Score,
		Total:       len(questions),
		SubmittedAt: sub.SubmittedAt,
		Items:       make([]ReviewItem, 0, len(questions)),
	}
	for _, question := range questions {
		given := answers[fmt.Sprint(question.ID)]
		review.Items = append(review.Items, ReviewItem{
			Question: question,
			Given:    given,
			Correct:  IsCorrect(question, given),
		})
	}
	return review, nil
}

// Grade overrides the computed score and notifies the student.
func (svc *Service) Grade(ctx context.Context, p auth.Principal, submissionID int64, in ScoreInput) (QuizSubmission, error) {
	if err := manageQuizzes.Check(p); err != nil {
		return QuizSubmission{}, err
	}
	if err := svc.validate.Struct(in); err != nil {
		return QuizSubmission{}, err
	}
	sub, err := svc.repo.GetQuizSubmission(ctx, submissionID)
	if err != nil {
		return QuizSubmission{}, err
	}
	q, err := svc.authorizeQuiz(ctx, p, sub.QuizID, manageQuizzes)
	if err != nil {
		return QuizSubmission{}, err
	}

	if err = svc.repo.SetQuizScore(ctx, submissionID, *in.Score); err != nil {
		return QuizSubmission{}, errors.Wrap(err, "setting quiz score")
	}
	sub.Score = *in.Score

	svc.notifier.NotifyUser(ctx, sub.StudentID, fmt.Sprintf(`Your quiz "%s" has been graded: %d.`, q.Title, sub.Score))
	return sub, nil
}

func (svc *Service) ListSubmissions(ctx context.Context, p auth.Principal, quizID int64) ([]StudentQuizSubmission, error) {
	if _, err := svc.authorizeQuiz(ctx, p, quizID, manageQuizzes); err != nil {
		return nil, err
	}
	return svc.repo.QueryQuizSubmissions(ctx, quizID)
}

func (svc *Service) MySubmissions(ctx context.Context, p auth.Principal) ([]MyQuizSubmission, error) {
	if err := studentOnly.Check(p); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentQuizSubmissions(ctx, p.ID)
}

// Rank returns the caller's position among all submissions of the quiz.
func (svc *Service) Rank(ctx context.Context, p auth.Principal, quizID int64) (Rank, error) {
	if err := studentOnly.Check(p); err != nil {
		return Rank{}, err
	}
	if _, err := svc.repo.GetQuiz(ctx, quizID); err != nil {
		return Rank{}, err
	}
	rows, err := svc.repo.QueryQuizSubmissions(ctx, quizID)
	if err != nil {
		return Rank{}, errors.Wrap(err, "querying quiz submissions")
	}
	subs := make([]QuizSubmission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.QuizSubmission)
	}
	r, ok := RankOf(subs, p.ID)
	if !ok {
		return Rank{}, ErrNoSubmission
	}
	return r, nil
}

// Delete removes the quiz with its questions and submissions.
func (svc *Service) Delete(ctx context.Context, p auth.Principal, quizID int64) error {
	if _, err := svc.authorizeQuiz(ctx, p, quizID, manageQuizzes); err != nil {
		return err
	}
	return svc.repo.DeleteQuiz(ctx, quizID)
}
