package quiz

import (
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/pujaripavansai28/LMS/core"
)

// Question types
const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "truefalse"
	TypeNumerical = "numerical"
	TypeShort     = "short"
)

var QuestionTypes = []string{TypeMCQ, TypeTrueFalse, TypeNumerical, TypeShort}

type Quiz struct {
	ID        int64     `db:"id" json:"id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

// Question.Answer holds the 1-based option number for mcq questions.
type Question struct {
	ID           int64    `json:"id"`
	QuizID       int64    `json:"quiz_id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer,omitempty"`
}

type QuizSubmission struct {
	ID          int64          `db:"id" json:"id"`
	QuizID      int64          `db:"quiz_id" json:"quiz_id"`
	StudentID   int64          `db:"student_id" json:"student_id"`
	Answers     types.JSONText `db:"answers" json:"answers"`
	Score       int            `db:"score" json:"score"`
	SubmittedAt time.Time      `db:"submitted_at" json:"submitted_at"` // UTC
}

// StudentQuizSubmission is a QuizSubmission as listed to the course instructor.
type StudentQuizSubmission struct {
	QuizSubmission
	StudentName string `db:"student_name" json:"student_name"`
}

// MyQuizSubmission is a QuizSubmission as listed to its author.
type MyQuizSubmission struct {
	QuizSubmission
	QuizTitle string `db:"quiz_title" json:"quiz_title"`
	CourseID  int64  `db:"course_id" json:"course_id"`
}

type NewQuiz struct {
	Title string `json:"title" form:"title" validate:"required,notblank,singleline"`
}

type NewQuestion struct {
	QuestionText string   `json:"question_text" form:"question_text" validate:"required,notblank"`
	QuestionType string   `json:"question_type" form:"question_type" validate:"required,qtype"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer" form:"answer" validate:"required"`
}

func (nq *NewQuestion) Clean() {
	nq.QuestionText = core.CleanString(nq.QuestionText)
	nq.QuestionType = core.CleanString(nq.QuestionType, true /* lower */)
	nq.Answer = core.CleanString(nq.Answer)
	if nq.QuestionType == TypeTrueFalse {
		nq.Answer = core.CleanString(nq.Answer, true /* lower */)
	}
	if nq.QuestionType != TypeMCQ {
		nq.Options = []string{}
		return
	}
	opts := make([]string, 0, len(nq.Options))
	for _, opt := range nq.Options {
		opts = append(opts, core.CleanString(opt))
	}
	nq.Options = opts
}

// SubmitInput maps question IDs to the given answers.
// Score is accepted for compatibility and ignored: scores are always recomputed.
type SubmitInput struct {
	Answers map[string]interface{} `json:"answers"`
	Score   interface{}            `json:"score,omitempty"`
}

type ScoreInput struct {
	Score *int `json:"score" validate:"required,min=0"`
}

type SubmitResult struct {
	Success    bool           `json:"success"`
	Created    bool           `json:"created"`
	Updated    bool           `json:"updated"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Submission QuizSubmission `json:"submission"`
}

type Rank struct {
	Rank  int `json:"rank"`
	Total int `json:"total"`
	Score int `json:"score"`
}

type ReviewItem struct {
	Question
	Given   interface{} `json:"given"`
	Correct bool        `json:"correct"`
}

type Review struct {
	Quiz        Quiz         `json:"quiz"`
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Items       []ReviewItem `json:"items"`
}
